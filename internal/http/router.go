package http

import (
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/weather-dashboard/internal/observability"
)

// RouterConfig carries the middleware settings for NewRouter.
type RouterConfig struct {
	Logger         *zap.Logger
	Limiter        *rate.Limiter // nil disables rate limiting
	RequestTimeout time.Duration // 0 disables the per-request deadline
	InFlight       *InFlightTracker
}

// NewRouter wires the dashboard routes. Lookup routes (/search, /api/weather) get the
// rate limiter and request timeout; everything gets correlation IDs and metrics.
func NewRouter(h *Handler, cfg RouterConfig) *mux.Router {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.InFlight == nil {
		cfg.InFlight = &InFlightTracker{}
	}

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(cfg.Logger))
	router.Use(MetricsMiddleware(cfg.InFlight))

	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	router.HandleFunc("/api/history", h.GetHistory).Methods("GET")

	lookups := router.NewRoute().Subrouter()
	lookups.Use(RateLimitMiddleware(cfg.Limiter))
	if cfg.RequestTimeout > 0 {
		lookups.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}
	lookups.HandleFunc("/search", h.Search).Methods("GET")
	lookups.HandleFunc("/api/weather", h.GetWeather).Methods("GET")

	return router
}
