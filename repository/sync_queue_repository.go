// ABOUTME: PostgreSQL implementation of SyncQueueRepository
// ABOUTME: Latest-wins upserts and atomic claim-and-mark-processing entry selection

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sync-hub/models"
)

// PostgreSQLSyncQueueRepository implements SyncQueueRepository using PostgreSQL
type PostgreSQLSyncQueueRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLSyncQueueRepository creates a new PostgreSQL sync queue repository
func NewPostgreSQLSyncQueueRepository(db *sql.DB, logger *slog.Logger) SyncQueueRepository {
	return &PostgreSQLSyncQueueRepository{
		db:     db,
		logger: logger,
	}
}

const queueColumns = `id, article_id, inoreader_id, operation, status, attempts, last_error, next_attempt_at, created_at, updated_at`

// Enqueue inserts a pending entry with latest-wins semantics. The partial
// unique index sync_queue_pending_unique(article_id, operation_class) WHERE
// status = 'pending' bounds queue growth under rapid toggling.
func (r *PostgreSQLSyncQueueRepository) Enqueue(ctx context.Context, entry *models.SyncQueueEntry) error {
	query := `
		INSERT INTO sync_queue (id, article_id, inoreader_id, operation, operation_class, status, attempts, last_error, next_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', 0, '', $6, $7, $7)
		ON CONFLICT (article_id, operation_class) WHERE status = 'pending'
		DO UPDATE SET operation = EXCLUDED.operation,
		              attempts = 0,
		              last_error = '',
		              next_attempt_at = EXCLUDED.next_attempt_at,
		              updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ArticleID,
		entry.InoreaderID,
		entry.Operation,
		entry.Operation.Class(),
		entry.NextAttemptAt,
		entry.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to enqueue sync operation",
			"article_id", entry.ArticleID,
			"operation", entry.Operation,
			"error", err)
		return fmt.Errorf("failed to enqueue sync operation: %w", err)
	}

	r.logger.Debug("Enqueued sync operation",
		"article_id", entry.ArticleID,
		"operation", entry.Operation)

	return nil
}

// ClaimPending atomically transitions due pending entries to processing.
// SKIP LOCKED keeps concurrent orchestrator triggers from double-claiming.
func (r *PostgreSQLSyncQueueRepository) ClaimPending(ctx context.Context, limit int) ([]*models.SyncQueueEntry, error) {
	query := `
		UPDATE sync_queue
		SET status = 'processing', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM sync_queue
			WHERE status = 'pending' AND next_attempt_at <= NOW()
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + queueColumns

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.SyncQueueEntry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claimed entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claimed entries: %w", err)
	}

	return entries, nil
}

// Release returns claimed entries to pending without attempt bookkeeping
func (r *PostgreSQLSyncQueueRepository) Release(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET status = 'pending', updated_at = NOW()
		WHERE id = ANY($1) AND status = 'processing'`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to release claimed entries: %w", err)
	}

	return nil
}

// MarkCompleted completes a batch of delivered entries
func (r *PostgreSQLSyncQueueRepository) MarkCompleted(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET status = 'completed', last_error = '', updated_at = NOW()
		WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark entries completed: %w", err)
	}

	return nil
}

// MarkFailed increments attempts and reschedules or terminally fails an entry
func (r *PostgreSQLSyncQueueRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, nextAttemptAt time.Time, terminal bool) error {
	status := models.StatusPending
	if terminal {
		status = models.StatusFailed
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET status = $2, attempts = attempts + 1, last_error = $3, next_attempt_at = $4, updated_at = NOW()
		WHERE id = $1`,
		id, status, lastError, nextAttemptAt)
	if err != nil {
		return fmt.Errorf("failed to mark entry failed: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

// CountsByStatus returns entry counts by status
func (r *PostgreSQLSyncQueueRepository) CountsByStatus(ctx context.Context) (models.SyncQueueStats, error) {
	var stats models.SyncQueueStats

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM sync_queue GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("failed to count queue entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.SyncStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("failed to scan queue counts: %w", err)
		}

		switch status {
		case models.StatusPending:
			stats.Pending = count
		case models.StatusProcessing:
			stats.Processing = count
		case models.StatusCompleted:
			stats.Completed = count
		case models.StatusFailed:
			stats.Failed = count
		}
	}

	return stats, rows.Err()
}

// ClearFailed purges terminally failed entries, returning the count cleared
func (r *PostgreSQLSyncQueueRepository) ClearFailed(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE status = 'failed'`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear failed entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared entries: %w", err)
	}

	r.logger.Info("Cleared failed sync queue entries", "count", rows)
	return int(rows), nil
}

// DeleteCompletedBefore garbage-collects completed entries past retention
func (r *PostgreSQLSyncQueueRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sync_queue WHERE status = 'completed' AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted entries: %w", err)
	}

	return int(rows), nil
}

// BlockedArticleIDs returns articles with an unresolved outbound entry
func (r *PostgreSQLSyncQueueRepository) BlockedArticleIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT article_id FROM sync_queue
		WHERE status IN ('pending', 'processing')`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked articles: %w", err)
	}
	defer rows.Close()

	blocked := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan blocked article id: %w", err)
		}
		blocked[id] = true
	}

	return blocked, rows.Err()
}

func (r *PostgreSQLSyncQueueRepository) scanEntry(row rowScanner) (*models.SyncQueueEntry, error) {
	var entry models.SyncQueueEntry
	err := row.Scan(
		&entry.ID,
		&entry.ArticleID,
		&entry.InoreaderID,
		&entry.Operation,
		&entry.Status,
		&entry.Attempts,
		&entry.LastError,
		&entry.NextAttemptAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
