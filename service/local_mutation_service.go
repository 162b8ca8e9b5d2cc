// ABOUTME: Applies user article mutations with optimistic local state
// ABOUTME: Buffers through the write queue, then debounces into store writes and sync queue entries

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sync-hub/models"
	"sync-hub/repository"
)

// LocalMutationService is the write path for user actions. Mutations land in
// the write queue overlay immediately; a trailing debounce folds bursts into
// one flush that writes the local store and enqueues outbound operations.
type LocalMutationService struct {
	writeQueue  *WriteQueueService
	debouncer   *Debouncer
	articleRepo repository.ArticleRepository
	queueRepo   repository.SyncQueueRepository
	flushWindow time.Duration
	logger      *slog.Logger
}

// NewLocalMutationService creates the user-facing mutation service.
func NewLocalMutationService(
	writeQueue *WriteQueueService,
	articleRepo repository.ArticleRepository,
	queueRepo repository.SyncQueueRepository,
	flushWindow time.Duration,
	logger *slog.Logger,
) *LocalMutationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LocalMutationService{
		writeQueue:  writeQueue,
		debouncer:   NewDebouncer(flushWindow, logger),
		articleRepo: articleRepo,
		queueRepo:   queueRepo,
		flushWindow: flushWindow,
		logger:      logger,
	}
}

// SetRead marks an article read or unread.
func (s *LocalMutationService) SetRead(ctx context.Context, inoreaderID string, read bool) error {
	return s.apply(ctx, models.WriteOperation{
		InoreaderID: inoreaderID,
		SetRead:     &read,
		EnqueuedAt:  time.Now(),
	})
}

// SetStarred stars or unstars an article.
func (s *LocalMutationService) SetStarred(ctx context.Context, inoreaderID string, starred bool) error {
	return s.apply(ctx, models.WriteOperation{
		InoreaderID: inoreaderID,
		SetStarred:  &starred,
		EnqueuedAt:  time.Now(),
	})
}

func (s *LocalMutationService) apply(ctx context.Context, op models.WriteOperation) error {
	if s.writeQueue.Enqueue(op) {
		s.debouncer.Schedule(s.flush)
		return nil
	}

	// Fallback mode: the buffer is unavailable, write through directly so the
	// mutation is not lost. No overlay means no sub-millisecond path here.
	s.logger.Debug("Write queue in fallback mode, writing through",
		"inoreader_id", op.InoreaderID)
	return s.flushOps(ctx, []models.WriteOperation{op})
}

// EffectiveState returns the article state the UI should render: the overlay
// value when a local mutation is buffered, else the last synced store value.
func (s *LocalMutationService) EffectiveState(ctx context.Context, inoreaderID string) (read, starred bool, err error) {
	overlay, hasOverlay := s.writeQueue.GetEffectiveState(inoreaderID)

	article, err := s.articleRepo.FindByInoreaderID(ctx, inoreaderID)
	if err != nil {
		if hasOverlay && errors.Is(err, repository.ErrNotFound) {
			return boolValue(overlay.Read), boolValue(overlay.Starred), nil
		}
		return false, false, err
	}

	read, starred = article.Read, article.Starred
	if hasOverlay {
		if overlay.Read != nil {
			read = *overlay.Read
		}
		if overlay.Starred != nil {
			starred = *overlay.Starred
		}
	}
	return read, starred, nil
}

// Flush forces an immediate drain, bypassing the debounce window.
func (s *LocalMutationService) Flush() {
	s.debouncer.Cancel()
	s.flush()
}

// Shutdown cancels any pending debounced flush and drains what is buffered.
func (s *LocalMutationService) Shutdown() {
	s.Flush()
	s.writeQueue.Close()
}

// flush is invoked from the debounce timer; it owns its own context because
// no caller is waiting on it.
func (s *LocalMutationService) flush() {
	ops := s.writeQueue.DrainForSync()
	if len(ops) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.flushOps(ctx, ops); err != nil {
		s.logger.Error("Debounced flush failed", "operations", len(ops), "error", err)
	}
}

// flushOps writes mutations to the local store and enqueues outbound sync
// operations. Per-article failures are logged and skipped so one bad row
// cannot wedge the whole batch.
func (s *LocalMutationService) flushOps(ctx context.Context, ops []models.WriteOperation) error {
	var firstErr error
	acked := make([]string, 0, len(ops))

	for _, op := range ops {
		article, err := s.articleRepo.UpdateLocalState(ctx, op.InoreaderID, op.SetRead, op.SetStarred, op.EnqueuedAt)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to apply mutation for %s: %w", op.InoreaderID, err)
			}
			s.logger.Error("Failed to apply local mutation",
				"inoreader_id", op.InoreaderID,
				"error", err)
			continue
		}

		for _, syncOp := range op.Operations() {
			entry := models.NewSyncQueueEntry(article.ID, article.InoreaderID, syncOp)
			if err := s.queueRepo.Enqueue(ctx, entry); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to enqueue sync operation for %s: %w", op.InoreaderID, err)
				}
				s.logger.Error("Failed to enqueue sync operation",
					"inoreader_id", op.InoreaderID,
					"operation", syncOp,
					"error", err)
			}
		}

		acked = append(acked, op.InoreaderID)
	}

	s.writeQueue.Acknowledge(acked)

	s.logger.Debug("Flushed write queue batch",
		"operations", len(ops),
		"acknowledged", len(acked))

	return firstErr
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
