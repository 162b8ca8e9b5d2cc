package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sync-hub/driver"
	"sync-hub/mocks"
	"sync-hub/models"
)

func newPendingEntry(op models.SyncOperation) *models.SyncQueueEntry {
	return models.NewSyncQueueEntry(uuid.New(), "tag:google.com,2005:reader/item/"+uuid.NewString(), op)
}

func openTracker() *RateLimitTracker {
	return NewRateLimitTracker(TrackerConfig{
		Zone1DailyLimit:     100,
		Zone2DailyLimit:     100,
		SafetyBufferPercent: 0,
	}, nil)
}

func exhaustedTracker() *RateLimitTracker {
	tracker := openTracker()
	tracker.RecordUsage(models.ZoneWrite, 100, 100, 0)
	return tracker
}

func TestPushSyncService_ProcessQueue_EmptyQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(nil, nil)

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Claimed)
	assert.Equal(t, 0, result.Completed)
}

func TestPushSyncService_ProcessQueue_BatchesByOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	entries := []*models.SyncQueueEntry{
		newPendingEntry(models.OperationMarkRead),
		newPendingEntry(models.OperationMarkRead),
		newPendingEntry(models.OperationStar),
	}

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(entries, nil)

	// Two read-state entries become one batched edit-tag call.
	apiClient.EXPECT().
		EditTag(gomock.Any(), []string{entries[0].InoreaderID, entries[1].InoreaderID}, driver.TagRead, "").
		Return(nil)
	apiClient.EXPECT().
		EditTag(gomock.Any(), []string{entries[2].InoreaderID}, driver.TagStarred, "").
		Return(nil)

	queueRepo.EXPECT().MarkCompleted(gomock.Any(), gomock.Len(2)).Return(nil)
	queueRepo.EXPECT().MarkCompleted(gomock.Any(), gomock.Len(1)).Return(nil)

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Claimed)
	assert.Equal(t, 3, result.Completed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Deferred)
}

func TestPushSyncService_ProcessQueue_DefersWhenRateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	entries := []*models.SyncQueueEntry{
		newPendingEntry(models.OperationMarkRead),
		newPendingEntry(models.OperationMarkRead),
	}

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(entries, nil)
	// No EditTag call: the write-zone gate holds the batch back.
	queueRepo.EXPECT().Release(gomock.Any(), gomock.Len(2)).Return(nil)

	service := NewPushSyncService(queueRepo, apiClient, exhaustedTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Deferred)
	assert.Equal(t, 0, result.Failed, "rate limit exhaustion is a deferral, not a failure")
	assert.Empty(t, result.Errors)
}

func TestPushSyncService_ProcessQueue_RemoteRateLimitReleasesBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	entries := []*models.SyncQueueEntry{newPendingEntry(models.OperationUnstar)}

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return(entries, nil)
	apiClient.EXPECT().
		EditTag(gomock.Any(), gomock.Any(), "", driver.TagStarred).
		Return(fmt.Errorf("edit-tag: %w", driver.ErrRateLimited))
	queueRepo.EXPECT().Release(gomock.Any(), gomock.Len(1)).Return(nil)

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Deferred)
	assert.Equal(t, 0, result.Failed)
}

func TestPushSyncService_ProcessQueue_RetryableFailureReschedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	entry := newPendingEntry(models.OperationMarkRead)

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return([]*models.SyncQueueEntry{entry}, nil)
	apiClient.EXPECT().
		EditTag(gomock.Any(), gomock.Any(), driver.TagRead, "").
		Return(fmt.Errorf("edit-tag: %w", driver.ErrRemote))

	queueRepo.EXPECT().
		MarkFailed(gomock.Any(), entry.ID, gomock.Any(), gomock.Any(), false).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ string, nextAttemptAt time.Time, _ bool) error {
			assert.True(t, nextAttemptAt.After(time.Now()), "retry must be scheduled with backoff")
			return nil
		})

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Failed, "first failure is not terminal")
	assert.NotEmpty(t, result.Errors)
}

func TestPushSyncService_ProcessQueue_ExhaustedRetriesAreTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	entry := newPendingEntry(models.OperationMarkRead)
	entry.Attempts = 4 // next failure is the 5th attempt

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return([]*models.SyncQueueEntry{entry}, nil)
	apiClient.EXPECT().
		EditTag(gomock.Any(), gomock.Any(), driver.TagRead, "").
		Return(fmt.Errorf("edit-tag: %w", driver.ErrRemote))
	queueRepo.EXPECT().
		MarkFailed(gomock.Any(), entry.ID, gomock.Any(), gomock.Any(), true).
		Return(nil)

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestPushSyncService_ProcessQueue_NonRetryableFailureIsTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	entry := newPendingEntry(models.OperationStar)

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return([]*models.SyncQueueEntry{entry}, nil)
	apiClient.EXPECT().
		EditTag(gomock.Any(), gomock.Any(), driver.TagStarred, "").
		Return(fmt.Errorf("edit-tag: %w", driver.ErrUnauthorized))
	queueRepo.EXPECT().
		MarkFailed(gomock.Any(), entry.ID, gomock.Any(), gomock.Any(), true).
		Return(nil)

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 0, nil)
	result, err := service.ProcessQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestPushSyncService_ProcessQueue_GarbageCollectsCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queueRepo := mocks.NewMockSyncQueueRepository(ctrl)
	apiClient := mocks.NewMockInoreaderAPI(ctrl)

	queueRepo.EXPECT().ClaimPending(gomock.Any(), 100).Return([]*models.SyncQueueEntry{
		newPendingEntry(models.OperationMarkRead),
	}, nil)
	apiClient.EXPECT().EditTag(gomock.Any(), gomock.Any(), driver.TagRead, "").Return(nil)
	queueRepo.EXPECT().MarkCompleted(gomock.Any(), gomock.Any()).Return(nil)
	queueRepo.EXPECT().
		DeleteCompletedBefore(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cutoff time.Time) (int, error) {
			assert.WithinDuration(t, time.Now().Add(-24*time.Hour), cutoff, 5*time.Second)
			return 3, nil
		})

	service := NewPushSyncService(queueRepo, apiClient, openTracker(), models.DefaultRetryPolicy(), 100, 24*time.Hour, nil)
	_, err := service.ProcessQueue(context.Background())
	require.NoError(t, err)
}
