package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"sync-hub/mocks"
	"sync-hub/models"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error { return f.err }

func newHealthMonitor(t *testing.T, db *fakePinger) (*HealthMonitor, *mocks.MockInoreaderAPI, *mocks.MockSyncQueueRepository, *mocks.MockSyncRunRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	api := mocks.NewMockInoreaderAPI(ctrl)
	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	runRepo := mocks.NewMockSyncRunRepository(ctrl)

	monitor := NewHealthMonitor(HealthMonitorConfig{
		BacklogThreshold:   500,
		ErrorRateThreshold: 0.5,
		RecentRunWindow:    10,
	}, db, api, queueRepo, runRepo, nil)

	return monitor, api, queueRepo, runRepo
}

func completedRuns(n int) []*models.SyncRun {
	runs := make([]*models.SyncRun, 0, n)
	for i := 0; i < n; i++ {
		runs = append(runs, &models.SyncRun{Status: models.RunCompleted})
	}
	return runs
}

func TestHealthMonitor_Check(t *testing.T) {
	tests := map[string]struct {
		dbErr          error
		authErr        error
		queueStats     models.SyncQueueStats
		queueErr       error
		recentRuns     []*models.SyncRun
		expectedStatus models.HealthStatus
	}{
		"all_probes_pass": {
			queueStats:     models.SyncQueueStats{Pending: 5},
			recentRuns:     completedRuns(4),
			expectedStatus: models.HealthHealthy,
		},
		"database_failure_is_unhealthy": {
			dbErr:          errors.New("connection refused"),
			queueStats:     models.SyncQueueStats{},
			recentRuns:     completedRuns(4),
			expectedStatus: models.HealthUnhealthy,
		},
		"auth_failure_is_unhealthy": {
			authErr:        errors.New("token rejected"),
			queueStats:     models.SyncQueueStats{},
			recentRuns:     completedRuns(4),
			expectedStatus: models.HealthUnhealthy,
		},
		"elevated_backlog_is_degraded": {
			queueStats:     models.SyncQueueStats{Pending: 600},
			recentRuns:     completedRuns(4),
			expectedStatus: models.HealthDegraded,
		},
		"queue_probe_failure_is_degraded": {
			queueErr:       errors.New("relation missing"),
			recentRuns:     completedRuns(4),
			expectedStatus: models.HealthDegraded,
		},
		"elevated_error_rate_is_unhealthy": {
			queueStats: models.SyncQueueStats{Pending: 1},
			recentRuns: []*models.SyncRun{
				{Status: models.RunFailed},
				{Status: models.RunFailed},
				{Status: models.RunFailed},
				{Status: models.RunCompleted},
			},
			expectedStatus: models.HealthUnhealthy,
		},
		"error_rate_at_threshold_stays_healthy": {
			queueStats: models.SyncQueueStats{},
			recentRuns: []*models.SyncRun{
				{Status: models.RunFailed},
				{Status: models.RunCompleted},
			},
			expectedStatus: models.HealthHealthy,
		},
		"unhealthy_outranks_degraded": {
			dbErr:          errors.New("down"),
			queueStats:     models.SyncQueueStats{Pending: 600},
			recentRuns:     completedRuns(4),
			expectedStatus: models.HealthUnhealthy,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			monitor, api, queueRepo, runRepo := newHealthMonitor(t, &fakePinger{err: tc.dbErr})

			api.EXPECT().ValidateAuth(gomock.Any()).Return(tc.authErr)
			queueRepo.EXPECT().CountsByStatus(gomock.Any()).Return(tc.queueStats, tc.queueErr)
			runRepo.EXPECT().ListRecent(gomock.Any(), 10).Return(tc.recentRuns, nil)

			snapshot := monitor.Check(context.Background())

			assert.Equal(t, tc.expectedStatus, snapshot.Status)
			assert.NotEmpty(t, snapshot.Uptime)
			assert.False(t, snapshot.Timestamp.IsZero())
		})
	}
}

func TestHealthMonitor_DependencyDetails(t *testing.T) {
	monitor, api, queueRepo, runRepo := newHealthMonitor(t, &fakePinger{err: errors.New("dial tcp: refused")})

	api.EXPECT().ValidateAuth(gomock.Any()).Return(nil)
	queueRepo.EXPECT().CountsByStatus(gomock.Any()).Return(models.SyncQueueStats{Pending: 501}, nil)
	runRepo.EXPECT().ListRecent(gomock.Any(), 10).Return(nil, nil)

	snapshot := monitor.Check(context.Background())

	assert.False(t, snapshot.Dependencies.Database.Healthy)
	assert.Contains(t, snapshot.Dependencies.Database.Detail, "refused")
	assert.True(t, snapshot.Dependencies.Auth.Healthy)
	assert.False(t, snapshot.Dependencies.Queue.Healthy)
	assert.Contains(t, snapshot.Dependencies.Queue.Detail, "backlog")
}

func TestHealthMonitor_RollingAverages(t *testing.T) {
	monitor, api, queueRepo, runRepo := newHealthMonitor(t, &fakePinger{})

	monitor.RecordAPICall("/edit-tag", 100*time.Millisecond, nil)
	monitor.RecordAPICall("/edit-tag", 300*time.Millisecond, nil)
	monitor.RecordSyncRun(2 * time.Second)

	api.EXPECT().ValidateAuth(gomock.Any()).Return(nil)
	queueRepo.EXPECT().CountsByStatus(gomock.Any()).Return(models.SyncQueueStats{}, nil)
	runRepo.EXPECT().ListRecent(gomock.Any(), 10).Return(nil, nil)

	snapshot := monitor.Check(context.Background())

	assert.Equal(t, int64(200), snapshot.Performance.AvgAPICallTimeMs)
	assert.Equal(t, int64(2000), snapshot.Performance.AvgSyncTimeMs)
	assert.False(t, snapshot.LastActivity.IsZero())
}

func TestHealthMonitor_ErrorCountAccumulates(t *testing.T) {
	monitor, api, queueRepo, runRepo := newHealthMonitor(t, &fakePinger{})

	monitor.RecordAPICall("/edit-tag", time.Millisecond, errors.New("boom"))
	monitor.RecordAPICall("/edit-tag", time.Millisecond, nil)
	monitor.RecordAPICall("/user-info", time.Millisecond, errors.New("boom"))

	api.EXPECT().ValidateAuth(gomock.Any()).Return(nil)
	queueRepo.EXPECT().CountsByStatus(gomock.Any()).Return(models.SyncQueueStats{}, nil)
	runRepo.EXPECT().ListRecent(gomock.Any(), 10).Return(nil, nil)

	snapshot := monitor.Check(context.Background())
	assert.Equal(t, 2, snapshot.ErrorCount)
}
