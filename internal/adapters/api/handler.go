package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports the health of one dependency, such as the database or Redis.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthFunc adapts a plain function to HealthChecker.
type HealthFunc func(ctx context.Context) error

func (f HealthFunc) Ping(ctx context.Context) error { return f(ctx) }

// OpsHandler serves the operational endpoints: health and Prometheus metrics.
type OpsHandler struct {
	checks  map[string]HealthChecker
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpsHandler creates a handler reporting on the given named dependencies.
func NewOpsHandler(checks map[string]HealthChecker, logger *slog.Logger) *OpsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpsHandler{checks: checks, timeout: 2 * time.Second, logger: logger}
}

// RegisterRoutes registers the operational routes with the provided ServeMux.
func (h *OpsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /metrics", h.Metrics)
}

// Metrics handles Prometheus metrics scraping requests.
func (h *OpsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// HealthCheck pings every dependency and answers 503 when one of them fails.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "UP"
	details := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			status = "DEGRADED"
			details[name] = err.Error()
			h.logger.Warn("health check failed", "dependency", name, "error", err)
		} else {
			details[name] = "OK"
		}
	}

	resp := map[string]interface{}{
		"status":  status,
		"details": details,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "DEGRADED" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health check response", "error", err)
	}
}
