package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/giftexchange/internal/observability/metrics"
	"github.com/aryan0dhankhar/giftexchange/internal/security/middleware"
	"github.com/aryan0dhankhar/giftexchange/internal/security/ratelimit"
)

// RouterConfig carries the dependencies of the HTTP surface
type RouterConfig struct {
	Exchange           Exchange
	Limiter            *ratelimit.Limiter
	CORSAllowedOrigins []string
	Readiness          map[string]Pinger
	Logger             *slog.Logger
}

// NewRouter builds the HTTP handler. Middleware order: recover, request id,
// request log, metrics, CORS, then rate limit and content type on the API
// routes. CORS sits on the root router so preflights never reach routing.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	users := NewUserHandler(cfg.Exchange, log)
	groups := NewGroupHandler(cfg.Exchange, log)
	health := NewHealthHandler(cfg.Readiness, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", health.Health)
	r.Get("/readyz", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(middleware.RateLimitMiddleware(cfg.Limiter, log))
		}
		r.Use(middleware.ValidateJSONContentType(log))

		r.Get("/users", users.List)
		r.Get("/groups", groups.List)

		r.Post("/user/create", users.Create)
		r.Post("/user/delete", users.Delete)

		r.Post("/group/create", groups.Create)
		r.Post("/group/join", groups.Join)
		r.Post("/group/unadmin", groups.Demote)
		r.Post("/group/delete", groups.Delete)
	})

	return r
}
