// ABOUTME: HTTP handler for local article state mutations
// ABOUTME: Mutations enqueue into the write queue; reads merge the pending overlay

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sync-hub/repository"
	"sync-hub/service"
)

// ArticleMutator is the local mutation surface the handler needs.
type ArticleMutator interface {
	SetRead(ctx context.Context, inoreaderID string, read bool) error
	SetStarred(ctx context.Context, inoreaderID string, starred bool) error
	EffectiveState(ctx context.Context, inoreaderID string) (read, starred bool, err error)
}

// ArticleStateRequest carries the flags to change. Absent fields are left
// untouched.
type ArticleStateRequest struct {
	InoreaderID string `json:"inoreader_id"`
	Read        *bool  `json:"read,omitempty"`
	Starred     *bool  `json:"starred,omitempty"`
}

// ArticleStateResponse reports the effective state after the mutation.
type ArticleStateResponse struct {
	Status      string    `json:"status"`
	InoreaderID string    `json:"inoreader_id"`
	Read        bool      `json:"read"`
	Starred     bool      `json:"starred"`
	Timestamp   time.Time `json:"timestamp"`
}

// ArticleHandler serves the article state endpoints.
type ArticleHandler struct {
	mutator ArticleMutator
	queue   *service.WriteQueueService
	logger  *slog.Logger
}

// NewArticleHandler creates a new article state handler.
func NewArticleHandler(mutator ArticleMutator, queue *service.WriteQueueService, logger *slog.Logger) *ArticleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleHandler{mutator: mutator, queue: queue, logger: logger}
}

// HandleState processes POST (mutate) and GET (read-back) on
// /v1/articles/state. Mutations return the overlay-merged state immediately;
// the remote write happens asynchronously.
func (h *ArticleHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleMutate(w, r)
	case http.MethodGet:
		h.handleRead(w, r)
	default:
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ArticleHandler) handleMutate(w http.ResponseWriter, r *http.Request) {
	var req ArticleStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "INVALID_JSON", "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.InoreaderID) == "" {
		respondWithError(w, "VALIDATION_ERROR", "inoreader_id is required", http.StatusBadRequest)
		return
	}
	if req.Read == nil && req.Starred == nil {
		respondWithError(w, "VALIDATION_ERROR", "at least one of read or starred is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if req.Read != nil {
		if err := h.mutator.SetRead(ctx, req.InoreaderID, *req.Read); err != nil {
			h.respondMutationError(w, req.InoreaderID, err)
			return
		}
	}
	if req.Starred != nil {
		if err := h.mutator.SetStarred(ctx, req.InoreaderID, *req.Starred); err != nil {
			h.respondMutationError(w, req.InoreaderID, err)
			return
		}
	}

	read, starred, err := h.mutator.EffectiveState(ctx, req.InoreaderID)
	if err != nil {
		h.logger.Error("Failed to read effective state after mutation",
			"inoreader_id", req.InoreaderID, "error", err)
		respondWithError(w, "STATE_UNAVAILABLE", "Failed to read article state", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusAccepted, ArticleStateResponse{
		Status:      "accepted",
		InoreaderID: req.InoreaderID,
		Read:        read,
		Starred:     starred,
		Timestamp:   time.Now(),
	})
}

func (h *ArticleHandler) respondMutationError(w http.ResponseWriter, inoreaderID string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondWithError(w, "NOT_FOUND", "Article not found", http.StatusNotFound)
		return
	}
	h.logger.Error("Article mutation failed", "inoreader_id", inoreaderID, "error", err)
	respondWithError(w, "MUTATION_FAILED", "Failed to apply article mutation", http.StatusInternalServerError)
}

func (h *ArticleHandler) handleRead(w http.ResponseWriter, r *http.Request) {
	inoreaderID := r.URL.Query().Get("inoreader_id")
	if inoreaderID == "" {
		respondWithError(w, "VALIDATION_ERROR", "inoreader_id query parameter is required", http.StatusBadRequest)
		return
	}

	read, starred, err := h.mutator.EffectiveState(r.Context(), inoreaderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, "NOT_FOUND", "Article not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to read article state", "inoreader_id", inoreaderID, "error", err)
		respondWithError(w, "STATE_UNAVAILABLE", "Failed to read article state", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, ArticleStateResponse{
		Status:      "ok",
		InoreaderID: inoreaderID,
		Read:        read,
		Starred:     starred,
		Timestamp:   time.Now(),
	})
}

// HandleQueueStats processes GET /v1/articles/queue/stats, reporting the
// in-memory write queue rather than the durable sync queue.
func (h *ArticleHandler) HandleQueueStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondWithJSON(w, http.StatusOK, h.queue.Stats())
}

// RegisterRoutes attaches the article endpoints to mux.
func (h *ArticleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/articles/state", h.HandleState)
	mux.HandleFunc("/v1/articles/queue/stats", h.HandleQueueStats)
}
