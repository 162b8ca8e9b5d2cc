// ABOUTME: Sync orchestrator owning the periodic pull/push schedule
// ABOUTME: Explicit idle/running/stopped state machine; manual triggers join the in-flight run

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sync-hub/models"
	"sync-hub/repository"
)

// OrchestratorState is the lifecycle state of the orchestrator.
type OrchestratorState int

const (
	OrchestratorIdle OrchestratorState = iota
	OrchestratorRunning
	OrchestratorStopped
)

func (s OrchestratorState) String() string {
	switch s {
	case OrchestratorIdle:
		return "idle"
	case OrchestratorRunning:
		return "running"
	case OrchestratorStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrOrchestratorStopped is returned for triggers after Stop.
var ErrOrchestratorStopped = errors.New("sync orchestrator is stopped")

// OrchestratorConfig holds the periodic schedule.
type OrchestratorConfig struct {
	PullInterval time.Duration
	PushInterval time.Duration
	RunTimeout   time.Duration
}

// DefaultOrchestratorConfig returns the default schedule.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		PullInterval: 30 * time.Minute,
		PushInterval: 5 * time.Minute,
		RunTimeout:   5 * time.Minute,
	}
}

// SyncOrchestrator owns the periodic timers for both workers and serializes
// runs: a scheduled tick that overlaps an in-progress run is skipped, and
// concurrent manual triggers collapse into the in-flight run.
type SyncOrchestrator struct {
	config    OrchestratorConfig
	pullSync  *PullSyncService
	pushSync  *PushSyncService
	queueRepo repository.SyncQueueRepository
	runRepo   repository.SyncRunRepository
	logger    *slog.Logger

	mu       sync.Mutex
	idle     *sync.Cond
	state    OrchestratorState
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	manual      singleflight.Group
	lastRun     *models.SyncRun
	runObserver func(time.Duration)
}

// NewSyncOrchestrator creates a new orchestrator.
func NewSyncOrchestrator(
	config OrchestratorConfig,
	pullSync *PullSyncService,
	pushSync *PushSyncService,
	queueRepo repository.SyncQueueRepository,
	runRepo repository.SyncRunRepository,
	logger *slog.Logger,
) *SyncOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PullInterval <= 0 {
		config.PullInterval = DefaultOrchestratorConfig().PullInterval
	}
	if config.PushInterval <= 0 {
		config.PushInterval = DefaultOrchestratorConfig().PushInterval
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultOrchestratorConfig().RunTimeout
	}

	o := &SyncOrchestrator{
		config:    config,
		pullSync:  pullSync,
		pushSync:  pushSync,
		queueRepo: queueRepo,
		runRepo:   runRepo,
		logger:    logger,
		state:     OrchestratorIdle,
	}
	o.idle = sync.NewCond(&o.mu)
	return o
}

// SetRunObserver registers a hook that receives each run's duration. Set it
// before Start.
func (o *SyncOrchestrator) SetRunObserver(obs func(time.Duration)) {
	o.runObserver = obs
}

// Start begins periodic sync. Calling Start on a running orchestrator is a
// no-op; exactly one timer pair exists per orchestrator.
func (o *SyncOrchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == OrchestratorRunning {
		o.logger.Warn("Sync orchestrator is already running")
		return
	}

	o.logger.Info("Starting sync orchestrator",
		"pull_interval", o.config.PullInterval,
		"push_interval", o.config.PushInterval)

	o.state = OrchestratorRunning
	o.stopChan = make(chan struct{})
	o.wg.Add(1)
	go o.runLoop(o.stopChan)
}

// Stop cancels the periodic timers and waits for an in-flight run to finish.
func (o *SyncOrchestrator) Stop() {
	o.mu.Lock()
	if o.state != OrchestratorRunning {
		o.mu.Unlock()
		return
	}
	o.state = OrchestratorStopped
	close(o.stopChan)
	o.mu.Unlock()

	o.logger.Info("Stopping sync orchestrator, draining in-flight run")
	o.wg.Wait()
	o.logger.Info("Sync orchestrator stopped")
}

// State returns the current lifecycle state.
func (o *SyncOrchestrator) State() OrchestratorState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastRun returns the most recent run outcome, if any.
func (o *SyncOrchestrator) LastRun() *models.SyncRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastRun == nil {
		return nil
	}
	run := *o.lastRun
	return &run
}

func (o *SyncOrchestrator) runLoop(stop chan struct{}) {
	defer o.wg.Done()

	pullTicker := time.NewTicker(o.config.PullInterval)
	pushTicker := time.NewTicker(o.config.PushInterval)
	defer pullTicker.Stop()
	defer pushTicker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-pullTicker.C:
			o.runScheduled(true, true)
		case <-pushTicker.C:
			o.runScheduled(false, true)
		}
	}
}

// runScheduled executes a timer-driven run unless one is already in flight.
func (o *SyncOrchestrator) runScheduled(pull, push bool) {
	o.mu.Lock()
	if o.running || o.state != OrchestratorRunning {
		o.mu.Unlock()
		o.logger.Debug("Skipping scheduled sync, a run is already in progress")
		return
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.idle.Broadcast()
		o.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), o.config.RunTimeout)
	defer cancel()

	o.executeRun(ctx, models.TriggerScheduled, pull, push)
}

// TriggerManualSync runs pull+push immediately and returns the outcome.
// Concurrent callers join the same in-flight run rather than spawning a
// second one against the same remote session.
func (o *SyncOrchestrator) TriggerManualSync(ctx context.Context) (*models.SyncRun, error) {
	o.mu.Lock()
	if o.state == OrchestratorStopped {
		o.mu.Unlock()
		return nil, ErrOrchestratorStopped
	}
	o.mu.Unlock()

	result, err, shared := o.manual.Do("manual-sync", func() (any, error) {
		o.mu.Lock()
		for o.running {
			// A scheduled run is in flight; the manual trigger queues behind
			// it instead of interleaving.
			o.idle.Wait()
		}
		o.running = true
		o.mu.Unlock()

		defer func() {
			o.mu.Lock()
			o.running = false
			o.idle.Broadcast()
			o.mu.Unlock()
		}()

		runCtx, cancel := context.WithTimeout(context.Background(), o.config.RunTimeout)
		defer cancel()

		return o.executeRun(runCtx, models.TriggerManual, true, true), nil
	})

	if err != nil {
		return nil, err
	}
	if shared {
		o.logger.Debug("Manual sync joined in-flight run")
	}

	run := result.(*models.SyncRun)
	if ctx.Err() != nil {
		return run, ctx.Err()
	}
	return run, nil
}

// executeRun performs one pull and/or push cycle and records the outcome.
// Worker errors become run records; they never escape into the timer loop.
func (o *SyncOrchestrator) executeRun(ctx context.Context, trigger models.SyncTrigger, pull, push bool) *models.SyncRun {
	run := models.NewSyncRun(trigger)

	defer func() {
		if r := recover(); r != nil {
			run.Finish(models.RunFailed, fmt.Errorf("sync run panicked: %v", r))
			o.recordRun(run)
			o.logger.Error("Sync run panicked", "panic", r)
		}
	}()

	var runErrs []string

	if pull {
		pullResult, err := o.pullSync.Sync(ctx)
		if err != nil {
			runErrs = append(runErrs, err.Error())
		}
		if pullResult != nil {
			run.NewArticles = pullResult.NewArticles
			run.DeletedArticles = pullResult.DeletedArticles
			run.NewTags = pullResult.NewTags
			run.FailedFeeds = pullResult.FailedFeeds
			runErrs = append(runErrs, pullResult.Errors...)
		}
	}

	if push {
		pushResult, err := o.pushSync.ProcessQueue(ctx)
		if err != nil {
			runErrs = append(runErrs, err.Error())
		}
		if pushResult != nil {
			run.PushedEntries = pushResult.Completed
			run.DeferredEntries = pushResult.Deferred
			runErrs = append(runErrs, pushResult.Errors...)
		}
	}

	switch {
	case len(runErrs) == 0:
		run.Finish(models.RunCompleted, nil)
	case run.NewArticles > 0 || run.PushedEntries > 0:
		run.Finish(models.RunPartial, errors.New(runErrs[0]))
	default:
		run.Finish(models.RunFailed, errors.New(runErrs[0]))
	}

	o.recordRun(run)
	return run
}

func (o *SyncOrchestrator) recordRun(run *models.SyncRun) {
	o.mu.Lock()
	o.lastRun = run
	o.mu.Unlock()

	if o.runObserver != nil {
		o.runObserver(run.Duration())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := o.runRepo.Create(ctx, run); err != nil {
		o.logger.Error("Failed to record sync run", "run_id", run.ID, "error", err)
	}

	o.logger.Info("Sync run recorded",
		"run_id", run.ID,
		"trigger", run.Trigger,
		"status", run.Status,
		"new_articles", run.NewArticles,
		"pushed_entries", run.PushedEntries,
		"deferred_entries", run.DeferredEntries,
		"duration_ms", run.Duration().Milliseconds())
}

// QueueStats returns sync queue counts by status.
func (o *SyncOrchestrator) QueueStats(ctx context.Context) (models.SyncQueueStats, error) {
	return o.queueRepo.CountsByStatus(ctx)
}

// ClearFailedItems purges terminally failed queue entries.
func (o *SyncOrchestrator) ClearFailedItems(ctx context.Context) (int, error) {
	return o.queueRepo.ClearFailed(ctx)
}
