// ABOUTME: This file defines domain models for Inoreader subscription management
// ABOUTME: Represents subscription data structure and related operations

package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription represents an Inoreader RSS feed subscription
type Subscription struct {
	ID          uuid.UUID `json:"id" db:"id"`
	InoreaderID string    `json:"inoreader_id" db:"inoreader_id"`
	FeedURL     string    `json:"feed_url" db:"feed_url"`
	Title       string    `json:"title" db:"title"`
	Category    string    `json:"category" db:"category"`
	SyncedAt    time.Time `json:"synced_at" db:"synced_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewSubscription creates a new subscription from individual parameters
func NewSubscription(inoreaderID, feedURL, title, category string) *Subscription {
	now := time.Now()

	return &Subscription{
		ID:          uuid.New(),
		InoreaderID: inoreaderID,
		FeedURL:     feedURL,
		Title:       title,
		Category:    category,
		SyncedAt:    now,
		CreatedAt:   now,
	}
}

// Update refreshes the mutable fields from a remote subscription record.
func (s *Subscription) Update(feedURL, title, category string) {
	s.FeedURL = feedURL
	s.Title = title
	s.Category = category
	s.SyncedAt = time.Now()
}
