package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"storefront/internal/config"
	"storefront/internal/infrastructure/logger"
)

const (
	healthTimeout     = 2 * time.Second
	limiterCleanup    = time.Minute
	limiterVisitorTTL = 3 * time.Minute
)

type GraphQLHandler interface {
	HandleGraphQL(w http.ResponseWriter, r *http.Request)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Router is the HTTP entry point. Close stops the rate limiter's cleanup loop.
type Router struct {
	http.Handler
	limiter *RateLimiter
}

func NewRouter(ctx context.Context, cfg config.ServerConfig, graphql GraphQLHandler, store Pinger, log *zap.Logger) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	var limiter *RateLimiter
	if cfg.RateLimit > 0 {
		limiter = NewRateLimiter(ctx, rate.Limit(cfg.RateLimit), cfg.RateBurst, limiterCleanup, limiterVisitorTTL)
	}

	r.Get("/healthz", healthHandler(store, log))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/graphql", graphql.HandleGraphQL)
	})

	return &Router{
		Handler: gziphandler.GzipHandler(r),
		limiter: limiter,
	}
}

func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Shutdown()
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func healthHandler(store Pinger, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status, resp := http.StatusOK, healthResponse{Status: "ok", Store: "up"}
		if err := store.Ping(ctx); err != nil {
			logger.FromContext(r.Context(), log).Warn("health check failed", zap.Error(err))
			status, resp = http.StatusServiceUnavailable, healthResponse{Status: "degraded", Store: "down"}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("failed to encode response", zap.Error(err))
		}
	}
}
