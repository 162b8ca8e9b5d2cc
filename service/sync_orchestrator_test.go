package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sync-hub/driver"
	"sync-hub/mocks"
	"sync-hub/models"
)

type orchestratorFixture struct {
	orchestrator *SyncOrchestrator
	api          *mocks.MockInoreaderAPI
	queueRepo    *mocks.MockSyncQueueRepository
	runRepo      *mocks.MockSyncRunRepository
}

// newOrchestratorFixture builds an orchestrator whose pull worker defers
// immediately (exhausted read zone) and whose push worker drains an empty
// queue, so a run completes without remote traffic unless a test overrides
// the mocks.
func newOrchestratorFixture(t *testing.T) orchestratorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	api := mocks.NewMockInoreaderAPI(ctrl)
	articleRepo := mocks.NewMockArticleRepository(ctrl)
	subRepo := mocks.NewMockSubscriptionRepository(ctrl)
	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	stateRepo := mocks.NewMockSyncStateRepository(ctrl)
	runRepo := mocks.NewMockSyncRunRepository(ctrl)

	tracker := NewRateLimitTracker(TrackerConfig{
		Zone1DailyLimit:     100,
		Zone2DailyLimit:     100,
		SafetyBufferPercent: 0,
	}, nil)
	tracker.RecordUsage(models.ZoneRead, 100, 100, 0)

	pullSync := NewPullSyncService(api, articleRepo, subRepo, queueRepo, stateRepo, tracker, 100, nil)
	pushSync := NewPushSyncService(queueRepo, api, tracker, models.DefaultRetryPolicy(), 100, 0, nil)

	orchestrator := NewSyncOrchestrator(OrchestratorConfig{
		PullInterval: time.Hour,
		PushInterval: time.Hour,
	}, pullSync, pushSync, queueRepo, runRepo, nil)

	return orchestratorFixture{
		orchestrator: orchestrator,
		api:          api,
		queueRepo:    queueRepo,
		runRepo:      runRepo,
	}
}

func TestSyncOrchestrator_StateMachine(t *testing.T) {
	f := newOrchestratorFixture(t)

	assert.Equal(t, OrchestratorIdle, f.orchestrator.State())

	f.orchestrator.Start()
	assert.Equal(t, OrchestratorRunning, f.orchestrator.State())

	// A second Start is a no-op, not a second timer pair.
	f.orchestrator.Start()
	assert.Equal(t, OrchestratorRunning, f.orchestrator.State())

	f.orchestrator.Stop()
	assert.Equal(t, OrchestratorStopped, f.orchestrator.State())

	// Stop is idempotent.
	f.orchestrator.Stop()
	assert.Equal(t, OrchestratorStopped, f.orchestrator.State())
}

func TestSyncOrchestrator_TriggerManualSync_RecordsRun(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(nil, nil)
	f.runRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *models.SyncRun) error {
			assert.Equal(t, models.TriggerManual, run.Trigger)
			assert.Equal(t, models.RunCompleted, run.Status)
			assert.False(t, run.FinishedAt.IsZero())
			return nil
		})

	run, err := f.orchestrator.TriggerManualSync(context.Background())

	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, models.RunCompleted, run.Status)

	last := f.orchestrator.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, run.ID, last.ID)
}

func TestSyncOrchestrator_TriggerAfterStop(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.orchestrator.Start()
	f.orchestrator.Stop()

	_, err := f.orchestrator.TriggerManualSync(context.Background())
	assert.ErrorIs(t, err, ErrOrchestratorStopped)
}

func TestSyncOrchestrator_ConcurrentTriggersJoin(t *testing.T) {
	f := newOrchestratorFixture(t)

	// A slow push cycle holds the run open while the second trigger arrives.
	f.queueRepo.EXPECT().
		ClaimPending(gomock.Any(), 100).
		DoAndReturn(func(context.Context, int) ([]*models.SyncQueueEntry, error) {
			time.Sleep(200 * time.Millisecond)
			return nil, nil
		})
	f.runRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	var wg sync.WaitGroup
	runs := make([]*models.SyncRun, 2)
	trigger := func(i int) {
		defer wg.Done()
		run, err := f.orchestrator.TriggerManualSync(context.Background())
		require.NoError(t, err)
		runs[i] = run
	}

	wg.Add(2)
	go trigger(0)
	// The stagger keeps the second trigger inside the first run's window.
	time.Sleep(50 * time.Millisecond)
	go trigger(1)
	wg.Wait()

	require.NotNil(t, runs[0])
	require.NotNil(t, runs[1])
	assert.Equal(t, runs[0].ID, runs[1].ID, "concurrent triggers must join one run")
}

func TestSyncOrchestrator_ManualTriggerQueuesBehindScheduledRun(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.orchestrator.Start()
	defer f.orchestrator.Stop()

	scheduledStarted := make(chan struct{})
	release := make(chan struct{})

	// Scheduled run holds the slot open until released; the manual trigger
	// must wait for it rather than interleave or busy-fail.
	first := f.queueRepo.EXPECT().
		ClaimPending(gomock.Any(), 100).
		DoAndReturn(func(context.Context, int) ([]*models.SyncQueueEntry, error) {
			close(scheduledStarted)
			<-release
			return nil, nil
		})
	f.queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(nil, nil).After(first)
	f.runRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	go f.orchestrator.runScheduled(false, true)
	<-scheduledStarted

	manualDone := make(chan *models.SyncRun, 1)
	go func() {
		run, err := f.orchestrator.TriggerManualSync(context.Background())
		require.NoError(t, err)
		manualDone <- run
	}()

	select {
	case <-manualDone:
		t.Fatal("manual trigger ran while the scheduled run held the slot")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case run := <-manualDone:
		require.NotNil(t, run)
		assert.Equal(t, models.TriggerManual, run.Trigger)
	case <-time.After(2 * time.Second):
		t.Fatal("manual trigger never ran after the scheduled run finished")
	}
}

func TestSyncOrchestrator_RunFailureClassification(t *testing.T) {
	f := newOrchestratorFixture(t)

	// Push cycle cannot even claim: the run carries nothing, so it fails.
	f.queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(nil, driver.ErrRemote)
	f.runRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *models.SyncRun) error {
			assert.Equal(t, models.RunFailed, run.Status)
			assert.NotEmpty(t, run.Error)
			return nil
		})

	run, err := f.orchestrator.TriggerManualSync(context.Background())

	require.NoError(t, err, "worker errors become run records, not trigger errors")
	assert.Equal(t, models.RunFailed, run.Status)
}

func TestSyncOrchestrator_QueueStatsDelegates(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.queueRepo.EXPECT().CountsByStatus(gomock.Any()).Return(models.SyncQueueStats{
		Pending:    3,
		Processing: 1,
		Failed:     2,
	}, nil)

	stats, err := f.orchestrator.QueueStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Backlog())

	f.queueRepo.EXPECT().ClearFailed(gomock.Any()).Return(2, nil)
	cleared, err := f.orchestrator.ClearFailedItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)
}

func TestSyncOrchestrator_RunObserverReceivesDuration(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(nil, nil)
	f.runRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	observed := make(chan time.Duration, 1)
	f.orchestrator.SetRunObserver(func(d time.Duration) { observed <- d })

	_, err := f.orchestrator.TriggerManualSync(context.Background())
	require.NoError(t, err)

	select {
	case d := <-observed:
		assert.GreaterOrEqual(t, d, time.Duration(0))
	case <-time.After(time.Second):
		t.Fatal("run observer was not notified")
	}
}
