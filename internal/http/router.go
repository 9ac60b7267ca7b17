// Package httpapi assembles the public HTTP surface: global middleware, the
// health and metrics endpoints, and every module's routes under /api.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hirepath/internal/platform/metrics"
	"hirepath/internal/platform/middleware"
	dErrors "hirepath/pkg/domain-errors"
	"hirepath/pkg/platform/httputil"
	"hirepath/pkg/platform/middleware/metadata"
	"hirepath/pkg/platform/middleware/requesttime"
	"hirepath/pkg/requestcontext"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config carries what the router needs from main.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	CORSOrigins    []string
	// Checks are run by GET /api/health, keyed by dependency name.
	Checks map[string]HealthCheck
	// Clock overrides the per-request timestamp source. Nil means time.Now.
	Clock func() time.Time
}

// NewRouter wires the middleware chain and mounts modules under /api.
func NewRouter(cfg Config, modules ...Registrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stamp := requesttime.Middleware
	if cfg.Clock != nil {
		stamp = requesttime.MiddlewareWithClock(cfg.Clock)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(stamp)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "method_not_allowed"})
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RequestTimeout > 0 {
			api.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		api.Get("/health", healthHandler(logger, cfg.Checks))
		for _, m := range modules {
			m.Register(api)
		}
	})
	return r
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func healthHandler(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resp := healthResponse{Status: "ok", Timestamp: requestcontext.Now(ctx).UTC()}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			err := check(checkCtx)
			cancel()
			if err != nil {
				logger.WarnContext(ctx, "health check failed",
					"check", name,
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
