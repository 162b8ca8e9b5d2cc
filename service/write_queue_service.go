// ABOUTME: Client-side write queue with an instant-read state overlay
// ABOUTME: Bounded FIFO with eviction counter; Redis persistence is fire-and-forget

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"sync-hub/models"
)

const (
	writeQueueOpsKey     = "synchub:writequeue:ops"
	writeQueueOverlayKey = "synchub:writequeue:overlay"
)

// WriteQueueStats reports the queue's current shape for health and metrics.
type WriteQueueStats struct {
	Length       int    `json:"length"`
	Capacity     int    `json:"capacity"`
	EvictedTotal uint64 `json:"evicted_total"`
	FallbackMode bool   `json:"fallback_mode"`
}

// WriteQueueService buffers local article mutations ahead of the server-side
// sync queue. The in-memory queue and overlay are authoritative so reads and
// enqueues never wait on the network; Redis persistence happens off the
// caller's path. When persistence is unavailable the service degrades to
// fallback mode: enqueue becomes a no-op and callers must write through
// directly. Losing buffered operations on storage failure is an accepted
// tradeoff, surfaced through the eviction and fallback stats rather than
// silently.
type WriteQueueService struct {
	capacity int
	logger   *slog.Logger

	mu      sync.Mutex
	ops     []models.WriteOperation
	overlay map[string]*models.EffectiveState
	seq     uint64
	evicted uint64

	fallback atomic.Bool

	rdb       *redis.Client
	persistCh chan persistRequest
	done      chan struct{}
	closeOnce sync.Once
}

type persistKind int

const (
	persistAppend persistKind = iota
	persistClear
	persistRemoveOverlay
)

type persistRequest struct {
	kind persistKind
	op   models.WriteOperation
	keys []string
}

// NewWriteQueueService creates a write queue backed by the given Redis client.
// A nil client starts the service permanently in fallback mode.
func NewWriteQueueService(rdb *redis.Client, capacity int, logger *slog.Logger) *WriteQueueService {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		capacity = models.DefaultWriteQueueCapacity
	}

	s := &WriteQueueService{
		capacity:  capacity,
		logger:    logger,
		overlay:   make(map[string]*models.EffectiveState),
		rdb:       rdb,
		persistCh: make(chan persistRequest, capacity),
		done:      make(chan struct{}),
	}

	if rdb == nil {
		s.fallback.Store(true)
	} else {
		go s.persistLoop()
	}

	return s
}

// Restore loads operations persisted by a previous process. Called once at
// startup before the service accepts traffic.
func (s *WriteQueueService) Restore(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	raw, err := s.rdb.LRange(ctx, writeQueueOpsKey, 0, int64(s.capacity)-1).Result()
	if err != nil {
		s.enterFallback(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range raw {
		var op models.WriteOperation
		if err := json.Unmarshal([]byte(item), &op); err != nil {
			s.logger.Warn("Dropping undecodable persisted operation", "error", err)
			continue
		}
		s.ops = append(s.ops, op)
		s.mergeOverlayLocked(op)
		if op.Seq > s.seq {
			s.seq = op.Seq
		}
	}

	s.logger.Info("Restored write queue from persistence", "operations", len(s.ops))
	return nil
}

// Enqueue appends a mutation in FIFO order, evicting the oldest entry first
// when at capacity. In fallback mode enqueue is a no-op and returns false;
// the caller must write through to the server directly.
func (s *WriteQueueService) Enqueue(op models.WriteOperation) bool {
	if s.fallback.Load() {
		return false
	}

	s.mu.Lock()
	s.seq++
	op.Seq = s.seq
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now()
	}

	if len(s.ops) >= s.capacity {
		// Last-resort degradation: the debouncer normally drains long before
		// capacity. The counter keeps the loss observable.
		dropped := len(s.ops) - s.capacity + 1
		s.ops = s.ops[dropped:]
		s.evicted += uint64(dropped)
	}

	s.ops = append(s.ops, op)
	s.mergeOverlayLocked(op)
	s.mu.Unlock()

	s.persistAsync(persistRequest{kind: persistAppend, op: op})
	return true
}

// GetEffectiveState returns the overlay value for an article if present. The
// second return is false when no local mutation is buffered and the caller
// should fall back to the last synced value.
func (s *WriteQueueService) GetEffectiveState(inoreaderID string) (models.EffectiveState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.overlay[inoreaderID]
	if !ok {
		return models.EffectiveState{}, false
	}
	return *state, true
}

// DrainForSync atomically returns and clears the queued operations for
// handoff to the server-side enqueue step. Overlay entries survive the drain
// until Acknowledge confirms the server-side write.
func (s *WriteQueueService) DrainForSync() []models.WriteOperation {
	s.mu.Lock()
	ops := s.ops
	s.ops = nil
	s.mu.Unlock()

	if len(ops) > 0 {
		s.persistAsync(persistRequest{kind: persistClear})
	}

	return ops
}

// Acknowledge removes overlay entries once the server-side write queue has
// accepted the corresponding operations.
func (s *WriteQueueService) Acknowledge(inoreaderIDs []string) {
	if len(inoreaderIDs) == 0 {
		return
	}

	s.mu.Lock()
	for _, id := range inoreaderIDs {
		delete(s.overlay, id)
	}
	s.mu.Unlock()

	s.persistAsync(persistRequest{kind: persistRemoveOverlay, keys: inoreaderIDs})
}

// IsInFallbackMode reports whether persistence is unavailable. In fallback
// mode the overlay is not authoritative and mutations must bypass the queue.
func (s *WriteQueueService) IsInFallbackMode() bool {
	return s.fallback.Load()
}

// Stats returns the queue's current shape.
func (s *WriteQueueService) Stats() WriteQueueStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return WriteQueueStats{
		Length:       len(s.ops),
		Capacity:     s.capacity,
		EvictedTotal: s.evicted,
		FallbackMode: s.fallback.Load(),
	}
}

// Close stops the persistence loop.
func (s *WriteQueueService) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// mergeOverlayLocked folds an operation into the overlay; caller holds s.mu.
func (s *WriteQueueService) mergeOverlayLocked(op models.WriteOperation) {
	state, ok := s.overlay[op.InoreaderID]
	if !ok {
		state = &models.EffectiveState{}
		s.overlay[op.InoreaderID] = state
	}
	state.Merge(op)
}

func (s *WriteQueueService) persistAsync(req persistRequest) {
	if s.rdb == nil || s.fallback.Load() {
		return
	}

	select {
	case s.persistCh <- req:
	default:
		// Persistence cannot keep up; memory stays authoritative and the
		// write is dropped rather than blocking the caller.
		s.logger.Warn("Write queue persistence backlog full, dropping persist request")
	}
}

func (s *WriteQueueService) persistLoop() {
	for {
		select {
		case <-s.done:
			return
		case req := <-s.persistCh:
			s.persist(req)
		}
	}
}

func (s *WriteQueueService) persist(req persistRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	switch req.kind {
	case persistAppend:
		var payload []byte
		payload, err = json.Marshal(req.op)
		if err == nil {
			pipe := s.rdb.TxPipeline()
			pipe.RPush(ctx, writeQueueOpsKey, payload)
			pipe.LTrim(ctx, writeQueueOpsKey, int64(-s.capacity), -1)
			if state, ok := s.GetEffectiveState(req.op.InoreaderID); ok {
				if statePayload, marshalErr := json.Marshal(state); marshalErr == nil {
					pipe.HSet(ctx, writeQueueOverlayKey, req.op.InoreaderID, statePayload)
				}
			}
			_, err = pipe.Exec(ctx)
		}
	case persistClear:
		err = s.rdb.Del(ctx, writeQueueOpsKey).Err()
	case persistRemoveOverlay:
		err = s.rdb.HDel(ctx, writeQueueOverlayKey, req.keys...).Err()
	}

	if err != nil {
		s.enterFallback(err)
	}
}

func (s *WriteQueueService) enterFallback(cause error) {
	if s.fallback.CompareAndSwap(false, true) {
		s.logger.Error("Write queue entering fallback mode; mutations bypass the local buffer",
			"error", cause)
	}
}
