// ABOUTME: PostgreSQL implementation of SubscriptionRepository
// ABOUTME: Mirrors the remote subscription list into local storage

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sync-hub/models"
)

// PostgreSQLSubscriptionRepository implements SubscriptionRepository using PostgreSQL
type PostgreSQLSubscriptionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLSubscriptionRepository creates a new PostgreSQL subscription repository
func NewPostgreSQLSubscriptionRepository(db *sql.DB, logger *slog.Logger) SubscriptionRepository {
	return &PostgreSQLSubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all local subscriptions
func (r *PostgreSQLSubscriptionRepository) List(ctx context.Context) ([]*models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, inoreader_id, feed_url, title, category, synced_at, created_at
		FROM subscriptions
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.InoreaderID, &sub.FeedURL, &sub.Title, &sub.Category, &sub.SyncedAt, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, &sub)
	}

	return subscriptions, rows.Err()
}

// Upsert inserts or refreshes a subscription, reporting whether it was created
func (r *PostgreSQLSubscriptionRepository) Upsert(ctx context.Context, subscription *models.Subscription) (bool, error) {
	query := `
		INSERT INTO subscriptions (id, inoreader_id, feed_url, title, category, synced_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (inoreader_id)
		DO UPDATE SET feed_url = EXCLUDED.feed_url,
		              title = EXCLUDED.title,
		              category = EXCLUDED.category,
		              synced_at = EXCLUDED.synced_at
		RETURNING (xmax = 0)`

	var created bool
	err := r.db.QueryRowContext(ctx, query,
		subscription.ID,
		subscription.InoreaderID,
		subscription.FeedURL,
		subscription.Title,
		subscription.Category,
		subscription.SyncedAt,
		subscription.CreatedAt,
	).Scan(&created)

	if err != nil {
		r.logger.Error("Failed to upsert subscription",
			"inoreader_id", subscription.InoreaderID,
			"error", err)
		return false, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return created, nil
}

// DeleteMissing removes subscriptions absent from the remote list
func (r *PostgreSQLSubscriptionRepository) DeleteMissing(ctx context.Context, keep []string) ([]uuid.UUID, error) {
	query := `
		DELETE FROM subscriptions
		WHERE NOT (inoreader_id = ANY($1))
		RETURNING id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(keep))
	if err != nil {
		return nil, fmt.Errorf("failed to delete missing subscriptions: %w", err)
	}
	defer rows.Close()

	var deleted []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted subscription id: %w", err)
		}
		deleted = append(deleted, id)
	}

	if len(deleted) > 0 {
		r.logger.Info("Deleted remotely removed subscriptions", "count", len(deleted))
	}

	return deleted, rows.Err()
}
