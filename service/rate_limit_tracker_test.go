package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-hub/models"
)

func TestRateLimitTracker_RecordUsage(t *testing.T) {
	tests := map[string]struct {
		setup        func(*RateLimitTracker)
		zone         models.RateLimitZone
		used         int
		limit        int
		resetAfter   int
		expectedUsed int
	}{
		"records_reported_usage": {
			zone:         models.ZoneRead,
			used:         42,
			limit:        100,
			expectedUsed: 42,
		},
		"usage_never_decreases": {
			setup: func(tr *RateLimitTracker) {
				tr.RecordUsage(models.ZoneRead, 50, 100, 0)
			},
			zone:         models.ZoneRead,
			used:         30,
			limit:        100,
			expectedUsed: 50,
		},
		"negative_usage_clamped_to_zero": {
			zone:         models.ZoneWrite,
			used:         -5,
			limit:        100,
			expectedUsed: 0,
		},
		"usage_clamped_to_limit": {
			zone:         models.ZoneRead,
			used:         250,
			limit:        100,
			expectedUsed: 100,
		},
		"limit_update_applied": {
			zone:         models.ZoneWrite,
			used:         120,
			limit:        200,
			expectedUsed: 120,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tracker := NewRateLimitTracker(DefaultTrackerConfig(), nil)
			if tc.setup != nil {
				tc.setup(tracker)
			}

			tracker.RecordUsage(tc.zone, tc.used, tc.limit, tc.resetAfter)

			snapshot := tracker.Snapshot()
			if tc.zone == models.ZoneRead {
				assert.Equal(t, tc.expectedUsed, snapshot.Zone1.Used)
			} else {
				assert.Equal(t, tc.expectedUsed, snapshot.Zone2.Used)
			}
		})
	}
}

func TestRateLimitTracker_RecordFromHeaders(t *testing.T) {
	tracker := NewRateLimitTracker(DefaultTrackerConfig(), nil)

	headers := http.Header{}
	headers.Set("X-Reader-Zone1-Usage", "15")
	headers.Set("X-Reader-Zone1-Limit", "100")
	headers.Set("X-Reader-Zone2-Usage", "3")
	headers.Set("X-Reader-Zone2-Limit", "100")
	headers.Set("X-Reader-Limits-Reset-After", "3600")

	tracker.RecordFromHeaders("/subscription/list", headers)

	snapshot := tracker.Snapshot()
	assert.Equal(t, 15, snapshot.Zone1.Used)
	assert.Equal(t, 100, snapshot.Zone1.Limit)
	assert.Equal(t, 3, snapshot.Zone2.Used)
	assert.Equal(t, 3600, snapshot.Zone1.ResetAfter)
	assert.WithinDuration(t, time.Now().Add(time.Hour), snapshot.Zone1.ResetAt, 5*time.Second)
}

func TestRateLimitTracker_RecordFromHeaders_MissingHeaders(t *testing.T) {
	tracker := NewRateLimitTracker(DefaultTrackerConfig(), nil)
	tracker.RecordUsage(models.ZoneRead, 40, 100, 0)

	// A response without rate-limit headers must not reset tracked usage.
	tracker.RecordFromHeaders("/user-info", http.Header{})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 40, snapshot.Zone1.Used)
}

func TestRateLimitTracker_CanProceed(t *testing.T) {
	tests := map[string]struct {
		config   TrackerConfig
		used     int
		cost     int
		expected bool
	}{
		"well_under_limit": {
			config:   TrackerConfig{Zone1DailyLimit: 100, Zone2DailyLimit: 100, SafetyBufferPercent: 10},
			used:     10,
			cost:     1,
			expected: true,
		},
		"exactly_at_effective_limit": {
			config:   TrackerConfig{Zone1DailyLimit: 100, Zone2DailyLimit: 100, SafetyBufferPercent: 10},
			used:     89,
			cost:     1,
			expected: true,
		},
		"over_effective_limit_blocked_by_buffer": {
			config:   TrackerConfig{Zone1DailyLimit: 100, Zone2DailyLimit: 100, SafetyBufferPercent: 10},
			used:     90,
			cost:     1,
			expected: false,
		},
		"at_hard_limit": {
			config:   TrackerConfig{Zone1DailyLimit: 100, Zone2DailyLimit: 100, SafetyBufferPercent: 0},
			used:     100,
			cost:     1,
			expected: false,
		},
		"no_buffer_full_budget_available": {
			config:   TrackerConfig{Zone1DailyLimit: 100, Zone2DailyLimit: 100, SafetyBufferPercent: 0},
			used:     99,
			cost:     1,
			expected: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tracker := NewRateLimitTracker(tc.config, nil)
			tracker.RecordUsage(models.ZoneRead, tc.used, tc.config.Zone1DailyLimit, 0)

			assert.Equal(t, tc.expected, tracker.CanProceed(models.ZoneRead, tc.cost))
		})
	}
}

func TestRateLimitTracker_ReopensAfterReset(t *testing.T) {
	tracker := NewRateLimitTracker(TrackerConfig{
		Zone1DailyLimit:     100,
		Zone2DailyLimit:     100,
		SafetyBufferPercent: 10,
	}, nil)

	// Exhaust the read zone with a reset window that elapses almost
	// immediately.
	tracker.RecordUsage(models.ZoneRead, 100, 100, 1)
	require.False(t, tracker.CanProceed(models.ZoneRead, 1))

	assert.Eventually(t, func() bool {
		return tracker.CanProceed(models.ZoneRead, 1)
	}, 3*time.Second, 50*time.Millisecond, "gate reopens once the reset window elapses")
}

func TestRateLimitTracker_ZonesIndependent(t *testing.T) {
	tracker := NewRateLimitTracker(TrackerConfig{
		Zone1DailyLimit:     100,
		Zone2DailyLimit:     100,
		SafetyBufferPercent: 0,
	}, nil)

	// Exhaust the write zone; the read zone must stay open.
	tracker.RecordUsage(models.ZoneWrite, 100, 100, 0)

	assert.False(t, tracker.CanProceed(models.ZoneWrite, 1))
	assert.True(t, tracker.CanProceed(models.ZoneRead, 1))
}

func TestRateLimitTracker_Snapshot(t *testing.T) {
	tracker := NewRateLimitTracker(DefaultTrackerConfig(), nil)
	tracker.RecordUsage(models.ZoneRead, 25, 100, 0)
	tracker.RecordUsage(models.ZoneWrite, 7, 100, 0)

	snapshot := tracker.Snapshot()

	assert.Equal(t, 25, snapshot.Zone1.Used)
	assert.Equal(t, 7, snapshot.Zone2.Used)
	assert.Equal(t, 75, snapshot.Zone1.Remaining())
	assert.InDelta(t, 25.0, snapshot.Zone1.Percentage(), 0.01)
	assert.False(t, snapshot.LastUpdated.IsZero())
}

func TestZoneForEndpoint(t *testing.T) {
	tests := map[string]struct {
		endpoint string
		expected models.RateLimitZone
	}{
		"subscription_list_is_read": {
			endpoint: "/subscription/list",
			expected: models.ZoneRead,
		},
		"stream_contents_is_read": {
			endpoint: "/stream/contents/user/-/state/com.google/reading-list",
			expected: models.ZoneRead,
		},
		"user_info_is_read": {
			endpoint: "/user-info",
			expected: models.ZoneRead,
		},
		"unread_count_is_read": {
			endpoint: "/unread-count",
			expected: models.ZoneRead,
		},
		"edit_tag_is_write": {
			endpoint: "/edit-tag",
			expected: models.ZoneWrite,
		},
		"unknown_endpoint_defaults_to_write": {
			endpoint: "/mark-all-as-read",
			expected: models.ZoneWrite,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ZoneForEndpoint(tc.endpoint))
		})
	}
}
