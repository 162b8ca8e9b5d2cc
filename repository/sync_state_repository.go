// ABOUTME: PostgreSQL implementation of SyncStateRepository
// ABOUTME: Persists pull-sync continuation cursors so interrupted pulls resume cleanly

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"sync-hub/models"
)

// PostgreSQLSyncStateRepository implements SyncStateRepository using PostgreSQL
type PostgreSQLSyncStateRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLSyncStateRepository creates a new PostgreSQL sync state repository
func NewPostgreSQLSyncStateRepository(db *sql.DB, logger *slog.Logger) SyncStateRepository {
	return &PostgreSQLSyncStateRepository{
		db:     db,
		logger: logger,
	}
}

// FindByStreamID finds a sync state by stream ID
func (r *PostgreSQLSyncStateRepository) FindByStreamID(ctx context.Context, streamID string) (*models.SyncState, error) {
	query := `
		SELECT id, stream_id, continuation_token, last_sync
		FROM sync_state
		WHERE stream_id = $1`

	var state models.SyncState
	err := r.db.QueryRowContext(ctx, query, streamID).Scan(
		&state.ID,
		&state.StreamID,
		&state.ContinuationToken,
		&state.LastSync,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sync state by stream_id: %w", err)
	}

	return &state, nil
}

// Upsert creates or updates the sync state for a stream
func (r *PostgreSQLSyncStateRepository) Upsert(ctx context.Context, state *models.SyncState) error {
	query := `
		INSERT INTO sync_state (id, stream_id, continuation_token, last_sync)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stream_id)
		DO UPDATE SET continuation_token = EXCLUDED.continuation_token,
		              last_sync = EXCLUDED.last_sync`

	_, err := r.db.ExecContext(ctx, query,
		state.ID,
		state.StreamID,
		state.ContinuationToken,
		state.LastSync,
	)

	if err != nil {
		r.logger.Error("Failed to upsert sync state",
			"stream_id", state.StreamID,
			"error", err)
		return fmt.Errorf("failed to upsert sync state: %w", err)
	}

	return nil
}
