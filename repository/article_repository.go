// ABOUTME: PostgreSQL implementation of ArticleRepository
// ABOUTME: Holds reconciled article rows and refreshes the per-feed unread aggregate view

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sync-hub/models"
)

// PostgreSQLArticleRepository implements ArticleRepository using PostgreSQL
type PostgreSQLArticleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLArticleRepository creates a new PostgreSQL article repository
func NewPostgreSQLArticleRepository(db *sql.DB, logger *slog.Logger) ArticleRepository {
	return &PostgreSQLArticleRepository{
		db:     db,
		logger: logger,
	}
}

const articleColumns = `id, subscription_id, inoreader_id, article_url, title, author, read, starred, published_at, fetched_at, last_local_update`

// FindByInoreaderID finds an article by its Inoreader ID
func (r *PostgreSQLArticleRepository) FindByInoreaderID(ctx context.Context, inoreaderID string) (*models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE inoreader_id = $1`

	article, err := r.scanArticle(r.db.QueryRowContext(ctx, query, inoreaderID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find article by inoreader_id: %w", err)
	}

	return article, nil
}

// Create inserts a newly discovered article
func (r *PostgreSQLArticleRepository) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (inoreader_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.SubscriptionID,
		article.InoreaderID,
		article.ArticleURL,
		article.Title,
		article.Author,
		article.Read,
		article.Starred,
		article.PublishedAt,
		article.FetchedAt,
		article.LastLocalUpdate,
	)

	if err != nil {
		r.logger.Error("Failed to create article",
			"inoreader_id", article.InoreaderID,
			"error", err)
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

// UpdateRemoteState applies reconciled remote flags. last_local_update is
// deliberately left untouched so the tie-breaker stays local.
func (r *PostgreSQLArticleRepository) UpdateRemoteState(ctx context.Context, id uuid.UUID, read, starred bool) error {
	query := `
		UPDATE articles
		SET read = $2, starred = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, read, starred)
	if err != nil {
		return fmt.Errorf("failed to update remote article state: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateLocalState applies a user mutation and stamps last_local_update
func (r *PostgreSQLArticleRepository) UpdateLocalState(ctx context.Context, inoreaderID string, setRead, setStarred *bool, at time.Time) (*models.Article, error) {
	query := `
		UPDATE articles
		SET read = COALESCE($2, read),
		    starred = COALESCE($3, starred),
		    last_local_update = $4
		WHERE inoreader_id = $1
		RETURNING ` + articleColumns

	article, err := r.scanArticle(r.db.QueryRowContext(ctx, query, inoreaderID, setRead, setStarred, at))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update local article state: %w", err)
	}

	r.logger.Debug("Applied local mutation",
		"inoreader_id", inoreaderID,
		"last_local_update", at)

	return article, nil
}

// DeleteBySubscription removes all articles of a remotely deleted subscription
func (r *PostgreSQLArticleRepository) DeleteBySubscription(ctx context.Context, subscriptionID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE subscription_id = $1`, subscriptionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles for subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted articles: %w", err)
	}

	return int(rows), nil
}

// RefreshFeedAggregates recomputes the materialized per-feed unread counts.
// Callers coalesce invocations; this is too expensive to run per article.
func (r *PostgreSQLArticleRepository) RefreshFeedAggregates(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY feed_unread_counts`)
	if err != nil {
		return fmt.Errorf("failed to refresh feed aggregates: %w", err)
	}

	r.logger.Debug("Refreshed feed unread aggregates")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgreSQLArticleRepository) scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	err := row.Scan(
		&article.ID,
		&article.SubscriptionID,
		&article.InoreaderID,
		&article.ArticleURL,
		&article.Title,
		&article.Author,
		&article.Read,
		&article.Starred,
		&article.PublishedAt,
		&article.FetchedAt,
		&article.LastLocalUpdate,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}
