// ABOUTME: HTTP handlers for the sync control surface
// ABOUTME: Manual trigger, queue stats, failed-entry purge, and rate limit snapshot

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sync-hub/models"
	"sync-hub/service"
)

// SyncController is the orchestrator surface the handler needs.
type SyncController interface {
	TriggerManualSync(ctx context.Context) (*models.SyncRun, error)
	QueueStats(ctx context.Context) (models.SyncQueueStats, error)
	ClearFailedItems(ctx context.Context) (int, error)
}

// RateLimitReader exposes the current rate limit snapshot.
type RateLimitReader interface {
	Snapshot() models.RateLimitSnapshot
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Status    string    `json:"status"`
	ErrorCode string    `json:"error_code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TriggerResponse reports a completed manual sync run.
type TriggerResponse struct {
	Status          string               `json:"status"`
	RunID           string               `json:"run_id"`
	RunStatus       models.SyncRunStatus `json:"run_status"`
	NewArticles     int                  `json:"new_articles"`
	DeletedArticles int                  `json:"deleted_articles"`
	PushedEntries   int                  `json:"pushed_entries"`
	DeferredEntries int                  `json:"deferred_entries"`
	DurationMs      int64                `json:"duration_ms"`
	Timestamp       time.Time            `json:"timestamp"`
}

// QueueStatsResponse reports queue counts by status.
type QueueStatsResponse struct {
	Pending    int       `json:"pending"`
	Processing int       `json:"processing"`
	Completed  int       `json:"completed"`
	Failed     int       `json:"failed"`
	Backlog    int       `json:"backlog"`
	Timestamp  time.Time `json:"timestamp"`
}

// ClearFailedResponse reports how many failed entries were purged.
type ClearFailedResponse struct {
	Status    string    `json:"status"`
	Cleared   int       `json:"cleared"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncHandler serves the sync control endpoints.
type SyncHandler struct {
	controller SyncController
	rateLimits RateLimitReader
	logger     *slog.Logger
}

// NewSyncHandler creates a new sync control handler.
func NewSyncHandler(controller SyncController, rateLimits RateLimitReader, logger *slog.Logger) *SyncHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncHandler{
		controller: controller,
		rateLimits: rateLimits,
		logger:     logger,
	}
}

// HandleTrigger processes POST /v1/sync/trigger. The call blocks until the
// run finishes; concurrent triggers join the same run.
func (h *SyncHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	h.logger.Info("Manual sync triggered via API", "client_ip", getClientIP(r))

	run, err := h.controller.TriggerManualSync(ctx)
	if err != nil {
		if errors.Is(err, service.ErrOrchestratorStopped) {
			respondWithError(w, "ORCHESTRATOR_STOPPED", "Sync orchestrator is not running", http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("Manual sync trigger failed", "error", err)
		respondWithError(w, "SYNC_FAILED", "Manual sync failed", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, TriggerResponse{
		Status:          "success",
		RunID:           run.ID.String(),
		RunStatus:       run.Status,
		NewArticles:     run.NewArticles,
		DeletedArticles: run.DeletedArticles,
		PushedEntries:   run.PushedEntries,
		DeferredEntries: run.DeferredEntries,
		DurationMs:      run.Duration().Milliseconds(),
		Timestamp:       time.Now(),
	})
}

// HandleQueueStats processes GET /v1/sync/queue/stats.
func (h *SyncHandler) HandleQueueStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.controller.QueueStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to read queue stats", "error", err)
		respondWithError(w, "STATS_UNAVAILABLE", "Failed to read queue stats", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, QueueStatsResponse{
		Pending:    stats.Pending,
		Processing: stats.Processing,
		Completed:  stats.Completed,
		Failed:     stats.Failed,
		Backlog:    stats.Backlog(),
		Timestamp:  time.Now(),
	})
}

// HandleClearFailed processes DELETE /v1/sync/queue/failed.
func (h *SyncHandler) HandleClearFailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cleared, err := h.controller.ClearFailedItems(r.Context())
	if err != nil {
		h.logger.Error("Failed to clear failed queue entries", "error", err)
		respondWithError(w, "CLEAR_FAILED", "Failed to clear failed queue entries", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Cleared failed queue entries", "cleared", cleared, "client_ip", getClientIP(r))

	respondWithJSON(w, http.StatusOK, ClearFailedResponse{
		Status:    "success",
		Cleared:   cleared,
		Timestamp: time.Now(),
	})
}

// HandleRateLimits processes GET /v1/sync/rate-limits.
func (h *SyncHandler) HandleRateLimits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondWithJSON(w, http.StatusOK, h.rateLimits.Snapshot())
}

// RegisterRoutes attaches the sync control endpoints to mux.
func (h *SyncHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sync/trigger", h.HandleTrigger)
	mux.HandleFunc("/v1/sync/queue/stats", h.HandleQueueStats)
	mux.HandleFunc("/v1/sync/queue/failed", h.HandleClearFailed)
	mux.HandleFunc("/v1/sync/rate-limits", h.HandleRateLimits)
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, errorCode, message string, status int) {
	respondWithJSON(w, status, ErrorResponse{
		Status:    "error",
		ErrorCode: errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
