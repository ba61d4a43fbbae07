package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/render"
	"github.com/kjstillabower/weather-dashboard/internal/service"
)

// HealthConfig holds the optional dependency checks for the health handler.
type HealthConfig struct {
	StartTime time.Time
	// HistoryBackend names the configured history backend, reported in checks.
	HistoryBackend string
	// HistoryPing, when set, is called to check history backend reachability.
	HistoryPing func(ctx context.Context) error
	// CheckAPIKey makes every health check spend one provider call on key validation.
	CheckAPIKey bool
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	orchestrator *service.Orchestrator
	client       client.WeatherClient
	healthConfig *HealthConfig
	logger       *zap.Logger
	now          func() time.Time

	shuttingDown     atomic.Bool
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(
	orchestrator *service.Orchestrator,
	client client.WeatherClient,
	healthConfig *HealthConfig,
	logger *zap.Logger,
) *Handler {
	if healthConfig == nil {
		healthConfig = &HealthConfig{StartTime: time.Now()}
	}
	return &Handler{
		orchestrator: orchestrator,
		client:       client,
		healthConfig: healthConfig,
		logger:       logger,
		now:          time.Now,
	}
}

// SetShuttingDown sets the drain flag. Health returns 503 shutting-down while true.
func (h *Handler) SetShuttingDown(v bool) {
	h.shuttingDown.Store(v)
}

// IsShuttingDown reports whether the server is draining.
func (h *Handler) IsShuttingDown() bool {
	return h.shuttingDown.Load()
}

// Index handles GET /: the empty search page with the recent-search list.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := render.NewPage()
	h.writePage(w, r, "", page.Snapshot())
}

// Search handles GET /search?city=. The form submit, the Enter key and history links all land here.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	page := render.NewPage()
	out := h.orchestrator.Fetch(r.Context(), city, page)
	if out.City != "" {
		city = out.City
	}
	h.writePage(w, r, city, page.Snapshot())
}

// GetWeather handles GET /api/weather?city=.
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	out := h.orchestrator.Fetch(r.Context(), r.URL.Query().Get("city"), render.NewPage())

	switch out.Kind {
	case service.KindSuccess:
		writeJSON(w, http.StatusOK, out.View)
	case service.KindInvalid:
		writeError(w, r, http.StatusBadRequest, "INVALID_LOCATION", service.InvalidMessage(out.Err))
	case service.KindNotFound:
		writeError(w, r, http.StatusNotFound, "CITY_NOT_FOUND", render.MsgNotFound)
	default:
		writeServiceError(w, r, out.Err)
	}
}

// GetHistory handles GET /api/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries := []string{}
	if store := h.orchestrator.History(); store != nil {
		entries = append(entries, store.Entries()...)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result, checks := h.computeHealthStatus(r.Context())

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	resp := map[string]interface{}{
		"status":    result.status,
		"service":   "weather-dashboard",
		"version":   "dev",
		"checks":    checks,
		"uptime":    h.now().Sub(h.healthConfig.StartTime).Round(time.Second).String(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > history backend unreachable > API key invalid > healthy.
func (h *Handler) computeHealthStatus(ctx context.Context) (healthResult, map[string]string) {
	checks := make(map[string]string)
	if h.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}, checks
	}

	result := healthResult{"healthy", http.StatusOK, ""}
	if h.healthConfig.HistoryPing != nil {
		name := "history"
		if h.healthConfig.HistoryBackend != "" {
			name = "history:" + h.healthConfig.HistoryBackend
		}
		if err := h.healthConfig.HistoryPing(ctx); err != nil {
			checks[name] = "unhealthy"
			result = healthResult{"degraded", http.StatusServiceUnavailable, "history_unreachable"}
		} else {
			checks[name] = "healthy"
		}
	}
	if h.healthConfig.CheckAPIKey && h.client != nil {
		if err := h.client.ValidateAPIKey(ctx); err != nil {
			checks["weatherApi"] = "unhealthy"
			if result.status == "healthy" {
				result = healthResult{"degraded", http.StatusServiceUnavailable, "api_key_invalid"}
			}
		} else {
			checks["weatherApi"] = "healthy"
		}
	}
	return result, checks
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": client.CorrelationID(r.Context()),
		},
	})
}

// writeServiceError writes a 503 Service Unavailable error response for transport failures.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", render.MsgConnectFailure)
	if logger := observability.LoggerFromContext(r.Context()); logger != nil {
		logger.Debug("upstream error", zap.Error(err))
	}
}
