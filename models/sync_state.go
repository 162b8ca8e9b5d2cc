// ABOUTME: This file defines the pull-sync cursor state for paginated stream fetches
// ABOUTME: Continuation tokens let a pull resume where the previous one stopped

package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncState represents the synchronization cursor for one remote stream.
type SyncState struct {
	ID                uuid.UUID `json:"id" db:"id"`
	StreamID          string    `json:"stream_id" db:"stream_id"`
	ContinuationToken string    `json:"continuation_token" db:"continuation_token"`
	LastSync          time.Time `json:"last_sync" db:"last_sync"`
}

// NewSyncState creates a new sync state for a stream
func NewSyncState(streamID, continuationToken string) *SyncState {
	return &SyncState{
		ID:                uuid.New(),
		StreamID:          streamID,
		ContinuationToken: continuationToken,
		LastSync:          time.Now(),
	}
}

// UpdateContinuationToken updates the continuation token and sync time
func (s *SyncState) UpdateContinuationToken(token string) {
	s.ContinuationToken = token
	s.LastSync = time.Now()
}
