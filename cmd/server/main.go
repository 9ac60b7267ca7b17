package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"hirepath/internal/application/handler"
	appmetrics "hirepath/internal/application/metrics"
	"hirepath/internal/application/query"
	"hirepath/internal/application/resume"
	"hirepath/internal/application/service"
	"hirepath/internal/application/store"
	"hirepath/internal/application/validation"
	httpapi "hirepath/internal/http"
	"hirepath/internal/platform/config"
	"hirepath/internal/platform/httpserver"
	"hirepath/internal/platform/logger"
	"hirepath/internal/platform/metrics"
	"hirepath/internal/platform/postgres"
	platformredis "hirepath/internal/platform/redis"
	"hirepath/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/application.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped cleanly")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	checks := map[string]httpapi.HealthCheck{}
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	records, err := buildStore(ctx, cfg, checks, &closers)
	if err != nil {
		return err
	}
	resumes, err := buildResumeStore(ctx, cfg.Resume, log)
	if err != nil {
		return err
	}

	svc := service.New(records, resumes,
		service.WithLogger(log),
		service.WithMetrics(appmetrics.New(registry)),
		service.WithDefaultLimit(cfg.Listing.DefaultLimit),
		service.WithQueryEngine(query.NewEngine(query.WithLocale(cfg.Listing.CollationLocale))),
		service.WithValidator(validation.New(
			validation.WithEmailDomainSuffix(cfg.Validation.EmailRequiredSuffix),
			validation.WithMaxResumeBytes(cfg.Resume.MaxBytes),
		)),
	)

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Metrics:        metrics.New(registry),
		Gatherer:       registry,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Checks:         checks,
	}, handler.New(svc, log, cfg.Resume.MaxBytes))

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting hirepath",
			"addr", cfg.Server.Addr,
			"store", cfg.Store.Backend,
			"resume_backend", cfg.Resume.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func buildStore(ctx context.Context, cfg config.Config, checks map[string]httpapi.HealthCheck, closers *[]io.Closer) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, db)
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		checks["postgres"] = db.PingContext
		return store.NewPostgres(db), nil
	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, client)
		checks["redis"] = client.Health
		return store.NewRedis(client.Client), nil
	default:
		return store.NewInMemoryStore(), nil
	}
}

func buildResumeStore(ctx context.Context, cfg config.Resume, log *slog.Logger) (service.ResumeStore, error) {
	if cfg.Backend == config.ResumeS3 {
		client, err := resume.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		breaker := circuit.New("s3",
			circuit.WithFailureThreshold(cfg.BreakerFailures),
			circuit.WithCooldown(cfg.BreakerCooldown),
		)
		return resume.NewGuardedStore(resume.NewS3Store(client, cfg.S3Bucket), breaker, log), nil
	}
	disk, err := resume.NewDiskStore(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return disk, nil
}
