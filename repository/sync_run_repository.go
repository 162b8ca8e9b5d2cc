// ABOUTME: PostgreSQL implementation of SyncRunRepository
// ABOUTME: Keeps a short rolling history of run outcomes for stats and health trending

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"sync-hub/models"
)

// PostgreSQLSyncRunRepository implements SyncRunRepository using PostgreSQL
type PostgreSQLSyncRunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLSyncRunRepository creates a new PostgreSQL sync run repository
func NewPostgreSQLSyncRunRepository(db *sql.DB, logger *slog.Logger) SyncRunRepository {
	return &PostgreSQLSyncRunRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a finished run and prunes history beyond the rolling window
func (r *PostgreSQLSyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, trigger_kind, status, started_at, finished_at, new_articles, deleted_articles, new_tags, failed_feeds, pushed_entries, deferred_entries, last_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Trigger,
		run.Status,
		run.StartedAt,
		run.FinishedAt,
		run.NewArticles,
		run.DeletedArticles,
		run.NewTags,
		run.FailedFeeds,
		run.PushedEntries,
		run.DeferredEntries,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}

	// History is a rolling window, not an audit log.
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM sync_runs
		WHERE id NOT IN (
			SELECT id FROM sync_runs ORDER BY started_at DESC LIMIT 100
		)`); err != nil {
		r.logger.Warn("Failed to prune sync run history", "error", err)
	}

	return nil
}

// ListRecent returns the most recent runs, newest first
func (r *PostgreSQLSyncRunRepository) ListRecent(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trigger_kind, status, started_at, finished_at, new_articles, deleted_articles, new_tags, failed_feeds, pushed_entries, deferred_entries, last_error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		if err := rows.Scan(
			&run.ID,
			&run.Trigger,
			&run.Status,
			&run.StartedAt,
			&run.FinishedAt,
			&run.NewArticles,
			&run.DeletedArticles,
			&run.NewTags,
			&run.FailedFeeds,
			&run.PushedEntries,
			&run.DeferredEntries,
			&run.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
