// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Returns the monitor's snapshot; unhealthy maps to 503 for probes

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"sync-hub/models"
)

// HealthChecker probes dependencies and derives the overall status.
type HealthChecker interface {
	Check(ctx context.Context) models.HealthSnapshot
}

// HealthHandler serves GET /v1/health.
type HealthHandler struct {
	monitor HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(monitor HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{monitor: monitor, logger: logger}
}

// HandleHealth returns the current health snapshot. Degraded is still a 200
// so orchestration does not restart a service that can limp along; only
// unhealthy returns 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.monitor.Check(r.Context())

	status := http.StatusOK
	if snapshot.Status == models.HealthUnhealthy {
		status = http.StatusServiceUnavailable
		h.logger.Warn("Health check reported unhealthy",
			"database", snapshot.Dependencies.Database.Healthy,
			"auth", snapshot.Dependencies.Auth.Healthy,
			"queue", snapshot.Dependencies.Queue.Healthy)
	}

	respondWithJSON(w, status, snapshot)
}

// RegisterRoutes attaches the health endpoint to mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/health", h.HandleHealth)
}
