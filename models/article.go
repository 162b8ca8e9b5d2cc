// ABOUTME: This file defines domain models for locally stored articles
// ABOUTME: Tracks read/starred flags and the last-local-update reconciliation tie-breaker

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article represents an article row in local storage. Remote state is
// reconciled against LastLocalUpdate: a remote-reported change is applied
// only when it is not older than the last local mutation.
type Article struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	SubscriptionID  uuid.UUID  `json:"subscription_id" db:"subscription_id"`
	InoreaderID     string     `json:"inoreader_id" db:"inoreader_id"`
	ArticleURL      string     `json:"article_url" db:"article_url"`
	Title           string     `json:"title" db:"title"`
	Author          string     `json:"author" db:"author"`
	Read            bool       `json:"read" db:"read"`
	Starred         bool       `json:"starred" db:"starred"`
	PublishedAt     *time.Time `json:"published_at" db:"published_at"`
	FetchedAt       time.Time  `json:"fetched_at" db:"fetched_at"`
	LastLocalUpdate time.Time  `json:"last_local_update" db:"last_local_update"`
}

// RemoteArticleState is the article state reported by a pull-sync delta.
type RemoteArticleState struct {
	Read      bool
	Starred   bool
	UpdatedAt time.Time
}

// NewArticle creates a new article discovered by pull-sync.
func NewArticle(inoreaderID string, subscriptionID uuid.UUID, articleURL, title, author string) *Article {
	now := time.Now()

	return &Article{
		ID:             uuid.New(),
		SubscriptionID: subscriptionID,
		InoreaderID:    inoreaderID,
		ArticleURL:     articleURL,
		Title:          title,
		Author:         author,
		FetchedAt:      now,
	}
}

// ShouldApplyRemote reports whether remote state may overwrite local state.
// Remote state loses the tie-break when it is older than the last local
// mutation; hasPendingOutbound marks articles with an unsynced local change.
func (a *Article) ShouldApplyRemote(remote RemoteArticleState, hasPendingOutbound bool) bool {
	if hasPendingOutbound {
		return false
	}
	return !remote.UpdatedAt.Before(a.LastLocalUpdate)
}

// ApplyRemote overwrites the reconcilable flags from remote state.
func (a *Article) ApplyRemote(remote RemoteArticleState) {
	a.Read = remote.Read
	a.Starred = remote.Starred
}

// MarkLocalMutation stamps the article as locally mutated now.
func (a *Article) MarkLocalMutation() {
	a.LastLocalUpdate = time.Now()
}
