package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Resume blob backends.
const (
	ResumeDisk = "disk"
	ResumeS3   = "s3"
)

// Config is the full process configuration.
type Config struct {
	Server     Server
	Log        Log
	Store      Store
	Redis      RedisConfig
	Resume     Resume
	Validation Validation
	Listing    Listing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type Log struct {
	Level  slog.Level
	Format string
}

// Store selects where accepted applications live.
type Store struct {
	Backend     string
	DatabaseURL string
}

// RedisConfig mirrors go-redis options we override.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Resume selects where uploaded resumes are written.
type Resume struct {
	Backend  string
	Dir      string
	MaxBytes int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Circuit breaker around the s3 backend.
	BreakerFailures int
	BreakerCooldown time.Duration
}

type Validation struct {
	// EmailRequiredSuffix enables the stricter email variant (e.g. ".com").
	EmailRequiredSuffix string
}

type Listing struct {
	DefaultLimit    int
	CollationLocale string
}

// FromEnv builds a Config from environment variables so main stays lean.
// Unparseable values fall back to defaults.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("HIREPATH_ADDR", ":3001"),
			RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     envList("CORS_ALLOWED_ORIGINS", "*"),
		},
		Log: Log{
			Level:  envLevel("LOG_LEVEL", slog.LevelInfo),
			Format: strings.ToLower(envOr("LOG_FORMAT", "json")),
		},
		Store: Store{
			Backend:     strings.ToLower(envOr("STORE_BACKEND", StoreMemory)),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Resume: Resume{
			Backend:     strings.ToLower(envOr("RESUME_BACKEND", ResumeDisk)),
			Dir:         envOr("RESUME_DIR", "uploads"),
			MaxBytes:    int64(envInt("RESUME_MAX_BYTES", 10<<20)),
			S3Bucket:    os.Getenv("S3_BUCKET"),
			S3Region:    envOr("S3_REGION", "us-east-1"),
			S3Endpoint:  os.Getenv("S3_ENDPOINT"),
			S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("S3_SECRET_KEY"),

			BreakerFailures: envInt("RESUME_BREAKER_FAILURES", 5),
			BreakerCooldown: envDuration("RESUME_BREAKER_COOLDOWN", 30*time.Second),
		},
		Validation: Validation{
			EmailRequiredSuffix: strings.TrimSpace(os.Getenv("EMAIL_REQUIRED_SUFFIX")),
		},
		Listing: Listing{
			DefaultLimit:    envInt("LISTING_DEFAULT_LIMIT", 10),
			CollationLocale: envOr("COLLATION_LOCALE", "und"),
		},
	}
}

// Validate rejects combinations the process cannot start with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("STORE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Resume.Backend {
	case ResumeDisk:
		if c.Resume.Dir == "" {
			return fmt.Errorf("RESUME_BACKEND=disk requires RESUME_DIR")
		}
	case ResumeS3:
		if c.Resume.S3Bucket == "" {
			return fmt.Errorf("RESUME_BACKEND=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown RESUME_BACKEND %q", c.Resume.Backend)
	}

	if c.Resume.MaxBytes <= 0 {
		return fmt.Errorf("RESUME_MAX_BYTES must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(envOr(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envLevel(key string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return lvl
}
