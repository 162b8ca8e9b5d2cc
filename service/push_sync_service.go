// ABOUTME: Push-sync worker draining the outbound sync queue to the Inoreader API
// ABOUTME: Groups operations into batched edit-tag calls gated by the rate limit tracker

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sync-hub/driver"
	"sync-hub/models"
	"sync-hub/repository"
)

// PushSyncResult summarizes one queue drain cycle.
type PushSyncResult struct {
	Claimed   int           `json:"claimed"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Deferred  int           `json:"deferred"`
	Duration  time.Duration `json:"duration"`
	Errors    []string      `json:"errors,omitempty"`
}

// PushSyncService drains the server-side sync queue into batched remote calls.
type PushSyncService struct {
	queueRepo   repository.SyncQueueRepository
	apiClient   InoreaderAPI
	tracker     *RateLimitTracker
	retryPolicy models.RetryPolicy
	batchSize   int
	retention   time.Duration
	logger      *slog.Logger
}

// NewPushSyncService creates a new push-sync worker.
func NewPushSyncService(
	queueRepo repository.SyncQueueRepository,
	apiClient InoreaderAPI,
	tracker *RateLimitTracker,
	retryPolicy models.RetryPolicy,
	batchSize int,
	retention time.Duration,
	logger *slog.Logger,
) *PushSyncService {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return &PushSyncService{
		queueRepo:   queueRepo,
		apiClient:   apiClient,
		tracker:     tracker,
		retryPolicy: retryPolicy,
		batchSize:   batchSize,
		retention:   retention,
		logger:      logger,
	}
}

// tagEdit maps an operation kind to its remote edit-tag form.
type tagEdit struct {
	add    string
	remove string
}

var operationEdits = map[models.SyncOperation]tagEdit{
	models.OperationMarkRead:   {add: driver.TagRead},
	models.OperationMarkUnread: {remove: driver.TagRead},
	models.OperationStar:       {add: driver.TagStarred},
	models.OperationUnstar:     {remove: driver.TagStarred},
}

// processing order is fixed so a cycle's behavior is deterministic
var operationOrder = []models.SyncOperation{
	models.OperationMarkRead,
	models.OperationMarkUnread,
	models.OperationStar,
	models.OperationUnstar,
}

// ProcessQueue claims due pending entries and delivers them grouped by
// operation kind. Groups that do not fit under the write-zone limit are
// released back to pending and reported as deferred, not failed.
func (s *PushSyncService) ProcessQueue(ctx context.Context) (*PushSyncResult, error) {
	start := time.Now()
	result := &PushSyncResult{}

	entries, err := s.queueRepo.ClaimPending(ctx, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending entries: %w", err)
	}

	result.Claimed = len(entries)
	if len(entries) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	groups := make(map[models.SyncOperation][]*models.SyncQueueEntry)
	for _, entry := range entries {
		groups[entry.Operation] = append(groups[entry.Operation], entry)
	}

	for _, op := range operationOrder {
		group := groups[op]
		if len(group) == 0 {
			continue
		}
		s.processGroup(ctx, op, group, result)
	}

	if s.retention > 0 {
		if _, err := s.queueRepo.DeleteCompletedBefore(ctx, time.Now().Add(-s.retention)); err != nil {
			s.logger.Warn("Failed to garbage-collect completed entries", "error", err)
		}
	}

	result.Duration = time.Since(start)

	s.logger.Info("Push-sync cycle finished",
		"claimed", result.Claimed,
		"completed", result.Completed,
		"failed", result.Failed,
		"deferred", result.Deferred,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

func (s *PushSyncService) processGroup(ctx context.Context, op models.SyncOperation, group []*models.SyncQueueEntry, result *PushSyncResult) {
	// Hard gate: at or above the limit the group stays pending for a later
	// cycle. Rate-limit exhaustion is a deferral signal, not an error.
	if !s.tracker.CanProceed(models.ZoneWrite, 1) {
		if err := s.queueRepo.Release(ctx, entryIDs(group)); err != nil {
			s.logger.Error("Failed to release deferred entries", "operation", op, "error", err)
			result.Errors = append(result.Errors, err.Error())
			return
		}

		result.Deferred += len(group)
		s.logger.Info("Deferred sync batch due to rate limit",
			"operation", op,
			"entries", len(group))
		return
	}

	itemIDs := make([]string, 0, len(group))
	for _, entry := range group {
		itemIDs = append(itemIDs, entry.InoreaderID)
	}

	edit := operationEdits[op]
	err := s.apiClient.EditTag(ctx, itemIDs, edit.add, edit.remove)
	if errors.Is(err, driver.ErrRateLimited) {
		// The remote disagreed with our tracked usage; the headers recorded
		// from this response correct the tracker. The batch stays pending.
		if relErr := s.queueRepo.Release(ctx, entryIDs(group)); relErr != nil {
			result.Errors = append(result.Errors, relErr.Error())
			return
		}
		result.Deferred += len(group)
		return
	}
	if err == nil {
		if err := s.queueRepo.MarkCompleted(ctx, entryIDs(group)); err != nil {
			s.logger.Error("Failed to mark batch completed", "operation", op, "error", err)
			result.Errors = append(result.Errors, err.Error())
			return
		}

		result.Completed += len(group)
		return
	}

	result.Errors = append(result.Errors, err.Error())
	s.logger.Error("Push-sync batch delivery failed",
		"operation", op,
		"entries", len(group),
		"error", err)

	for _, entry := range group {
		s.failEntry(ctx, entry, err, result)
	}
}

// failEntry applies the shared retry policy to one undelivered entry.
func (s *PushSyncService) failEntry(ctx context.Context, entry *models.SyncQueueEntry, cause error, result *PushSyncResult) {
	attempts := entry.Attempts + 1
	terminal := s.retryPolicy.Exhausted(attempts) || !driver.IsRetryable(cause)

	nextAttempt := time.Now().Add(s.retryPolicy.Delay(attempts))
	if terminal {
		nextAttempt = time.Now()
	}

	if err := s.queueRepo.MarkFailed(ctx, entry.ID, cause.Error(), nextAttempt, terminal); err != nil {
		s.logger.Error("Failed to record entry failure",
			"entry_id", entry.ID,
			"error", err)
		result.Errors = append(result.Errors, err.Error())
		return
	}

	if terminal {
		result.Failed++
		s.logger.Warn("Sync queue entry failed terminally",
			"entry_id", entry.ID,
			"article_id", entry.ArticleID,
			"operation", entry.Operation,
			"attempts", attempts)
	}
}

func entryIDs(entries []*models.SyncQueueEntry) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
