// ABOUTME: This file defines the client-side write queue operation and state overlay
// ABOUTME: The overlay gives instant effective read/starred state before the remote confirms

package models

import "time"

// DefaultWriteQueueCapacity bounds the client write queue. When full, the
// oldest entries are evicted FIFO before new ones are accepted.
const DefaultWriteQueueCapacity = 1000

// WriteOperation is a locally buffered article mutation awaiting handoff to
// the server-side sync queue. Nil pointer fields mean "no change".
type WriteOperation struct {
	InoreaderID string    `json:"inoreader_id"`
	SetRead     *bool     `json:"set_read,omitempty"`
	SetStarred  *bool     `json:"set_starred,omitempty"`
	Seq         uint64    `json:"seq"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// EffectiveState is the overlay view of an article: the most recent local
// mutation, regardless of whether the remote has confirmed it yet.
type EffectiveState struct {
	Read      *bool     `json:"read,omitempty"`
	Starred   *bool     `json:"starred,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Merge folds a newer operation into the overlay state.
func (s *EffectiveState) Merge(op WriteOperation) {
	if op.SetRead != nil {
		s.Read = op.SetRead
	}
	if op.SetStarred != nil {
		s.Starred = op.SetStarred
	}
	s.UpdatedAt = op.EnqueuedAt
}

// Operations derives the sync queue operations expressed by an operation.
func (op WriteOperation) Operations() []SyncOperation {
	var ops []SyncOperation
	if op.SetRead != nil {
		if *op.SetRead {
			ops = append(ops, OperationMarkRead)
		} else {
			ops = append(ops, OperationMarkUnread)
		}
	}
	if op.SetStarred != nil {
		if *op.SetStarred {
			ops = append(ops, OperationStar)
		} else {
			ops = append(ops, OperationUnstar)
		}
	}
	return ops
}
