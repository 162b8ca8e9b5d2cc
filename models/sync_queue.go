// ABOUTME: This file defines the durable outbound sync queue entry model
// ABOUTME: Latest-wins deduplication per article keeps the queue bounded under rapid toggling

package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncOperation is the kind of outbound mutation to replay against the remote.
type SyncOperation string

const (
	OperationMarkRead   SyncOperation = "read"
	OperationMarkUnread SyncOperation = "unread"
	OperationStar       SyncOperation = "star"
	OperationUnstar     SyncOperation = "unstar"
)

// OperationClass groups mutually exclusive operations. A new mutation for the
// same article and class overwrites the pending entry instead of appending.
type OperationClass string

const (
	ClassReadState OperationClass = "read_state"
	ClassStarState OperationClass = "star_state"
)

// Class returns the exclusive operation class for an operation.
func (op SyncOperation) Class() OperationClass {
	switch op {
	case OperationStar, OperationUnstar:
		return ClassStarState
	default:
		return ClassReadState
	}
}

// IsValid reports whether the operation is one of the known kinds.
func (op SyncOperation) IsValid() bool {
	switch op {
	case OperationMarkRead, OperationMarkUnread, OperationStar, OperationUnstar:
		return true
	}
	return false
}

// SyncStatus is the lifecycle state of a queue entry.
type SyncStatus string

const (
	StatusPending    SyncStatus = "pending"
	StatusProcessing SyncStatus = "processing"
	StatusCompleted  SyncStatus = "completed"
	StatusFailed     SyncStatus = "failed"
)

// SyncQueueEntry represents one pending outbound operation. At most one
// pending entry exists per (article, operation class).
type SyncQueueEntry struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	ArticleID     uuid.UUID     `json:"article_id" db:"article_id"`
	InoreaderID   string        `json:"inoreader_id" db:"inoreader_id"`
	Operation     SyncOperation `json:"operation" db:"operation"`
	Status        SyncStatus    `json:"status" db:"status"`
	Attempts      int           `json:"attempts" db:"attempts"`
	LastError     string        `json:"last_error,omitempty" db:"last_error"`
	NextAttemptAt time.Time     `json:"next_attempt_at" db:"next_attempt_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// NewSyncQueueEntry creates a pending entry for an article mutation.
func NewSyncQueueEntry(articleID uuid.UUID, inoreaderID string, op SyncOperation) *SyncQueueEntry {
	now := time.Now()

	return &SyncQueueEntry{
		ID:            uuid.New(),
		ArticleID:     articleID,
		InoreaderID:   inoreaderID,
		Operation:     op,
		Status:        StatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SyncQueueStats holds entry counts by status.
type SyncQueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Backlog is the number of entries still awaiting delivery.
func (s SyncQueueStats) Backlog() int {
	return s.Pending + s.Processing
}
