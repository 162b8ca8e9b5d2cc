// ABOUTME: Repository interfaces for sync-hub data access
// ABOUTME: PostgreSQL implementations live alongside; services depend on these contracts

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sync-hub/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// ArticleRepository manages article rows and the derived per-feed aggregates.
type ArticleRepository interface {
	FindByInoreaderID(ctx context.Context, inoreaderID string) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	// UpdateRemoteState applies reconciled remote flags without touching
	// last_local_update.
	UpdateRemoteState(ctx context.Context, id uuid.UUID, read, starred bool) error
	// UpdateLocalState applies a user mutation and stamps last_local_update.
	UpdateLocalState(ctx context.Context, inoreaderID string, setRead, setStarred *bool, at time.Time) (*models.Article, error)
	DeleteBySubscription(ctx context.Context, subscriptionID uuid.UUID) (int, error)
	// RefreshFeedAggregates recomputes the materialized per-feed unread counts.
	RefreshFeedAggregates(ctx context.Context) error
}

// SubscriptionRepository manages the local mirror of remote subscriptions.
type SubscriptionRepository interface {
	List(ctx context.Context) ([]*models.Subscription, error)
	Upsert(ctx context.Context, subscription *models.Subscription) (created bool, err error)
	// DeleteMissing removes subscriptions whose Inoreader ID is no longer in
	// keep, returning the IDs of the deleted rows.
	DeleteMissing(ctx context.Context, keep []string) ([]uuid.UUID, error)
}

// SyncQueueRepository manages the durable outbound operation queue.
type SyncQueueRepository interface {
	// Enqueue inserts a pending entry, overwriting any pending entry for the
	// same article and operation class (latest wins).
	Enqueue(ctx context.Context, entry *models.SyncQueueEntry) error
	// ClaimPending atomically marks up to limit due pending entries as
	// processing and returns them.
	ClaimPending(ctx context.Context, limit int) ([]*models.SyncQueueEntry, error)
	// Release returns claimed entries to pending without attempt bookkeeping,
	// used when a rate-limit gate defers a batch.
	Release(ctx context.Context, ids []uuid.UUID) error
	MarkCompleted(ctx context.Context, ids []uuid.UUID) error
	// MarkFailed increments attempts and either reschedules the entry as
	// pending at nextAttemptAt or, when terminal, parks it as failed.
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, nextAttemptAt time.Time, terminal bool) error
	CountsByStatus(ctx context.Context) (models.SyncQueueStats, error)
	ClearFailed(ctx context.Context) (int, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int, error)
	// BlockedArticleIDs returns articles with a pending or processing entry;
	// pull-sync must not overwrite these.
	BlockedArticleIDs(ctx context.Context) (map[uuid.UUID]bool, error)
}

// SyncRunRepository records run outcomes for stats and health trending.
type SyncRunRepository interface {
	Create(ctx context.Context, run *models.SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]*models.SyncRun, error)
}

// SyncStateRepository manages pull-sync continuation cursors per stream.
type SyncStateRepository interface {
	FindByStreamID(ctx context.Context, streamID string) (*models.SyncState, error)
	Upsert(ctx context.Context, state *models.SyncState) error
}
