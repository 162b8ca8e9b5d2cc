// ABOUTME: Rate limit tracker for Inoreader API usage monitoring and control
// ABOUTME: Tracks two independent zones from response headers and hard-gates remote calls

package service

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"sync-hub/models"
)

// Inoreader rate-limit response headers.
const (
	headerZone1Usage = "X-Reader-Zone1-Usage"
	headerZone1Limit = "X-Reader-Zone1-Limit"
	headerZone2Usage = "X-Reader-Zone2-Usage"
	headerZone2Limit = "X-Reader-Zone2-Limit"
	headerResetAfter = "X-Reader-Limits-Reset-After"
)

// TrackerConfig configures zone limits and the safety buffer.
type TrackerConfig struct {
	Zone1DailyLimit     int `json:"zone1_daily_limit"`
	Zone2DailyLimit     int `json:"zone2_daily_limit"`
	SafetyBufferPercent int `json:"safety_buffer_percent"`
}

// DefaultTrackerConfig returns limits matching the Inoreader free tier.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Zone1DailyLimit:     100,
		Zone2DailyLimit:     100,
		SafetyBufferPercent: 10,
	}
}

// RateLimitTracker records per-zone usage reported by the remote service and
// gates whether a call may proceed. It is shared by the push and pull workers;
// all reads and updates are atomic with respect to both zone counters.
type RateLimitTracker struct {
	config TrackerConfig
	logger *slog.Logger

	mu    sync.RWMutex
	zones map[models.RateLimitZone]*models.ZoneUsage
}

// NewRateLimitTracker creates a new rate limit tracker
func NewRateLimitTracker(config TrackerConfig, logger *slog.Logger) *RateLimitTracker {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Zone1DailyLimit <= 0 {
		config.Zone1DailyLimit = DefaultTrackerConfig().Zone1DailyLimit
	}
	if config.Zone2DailyLimit <= 0 {
		config.Zone2DailyLimit = DefaultTrackerConfig().Zone2DailyLimit
	}

	now := time.Now()
	return &RateLimitTracker{
		config: config,
		logger: logger,
		zones: map[models.RateLimitZone]*models.ZoneUsage{
			models.ZoneRead: {
				Limit:     config.Zone1DailyLimit,
				ResetAt:   nextMidnight(now),
				UpdatedAt: now,
			},
			models.ZoneWrite: {
				Limit:     config.Zone2DailyLimit,
				ResetAt:   nextMidnight(now),
				UpdatedAt: now,
			},
		},
	}
}

// RecordUsage updates one zone from remote-reported values. Usage never
// decreases except when the reported reset window has rolled over; values are
// clamped to [0, limit].
func (t *RateLimitTracker) RecordUsage(zone models.RateLimitZone, used, limit, resetAfterSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.recordUsageLocked(zone, used, limit, resetAfterSeconds)
}

func (t *RateLimitTracker) recordUsageLocked(zone models.RateLimitZone, used, limit, resetAfterSeconds int) {
	state, ok := t.zones[zone]
	if !ok {
		return
	}

	now := time.Now()

	if limit > 0 {
		state.Limit = limit
	}

	resetRolled := now.After(state.ResetAt)
	if used < 0 {
		used = 0
	}
	if used > state.Limit {
		used = state.Limit
	}

	if used >= state.Used || resetRolled {
		state.Used = used
	}

	if resetAfterSeconds > 0 {
		state.ResetAfter = resetAfterSeconds
		state.ResetAt = now.Add(time.Duration(resetAfterSeconds) * time.Second)
	} else if resetRolled {
		state.ResetAt = nextMidnight(now)
	}

	state.UpdatedAt = now
}

// RecordFromHeaders parses Inoreader rate-limit headers from a response and
// records both zones. Implements driver.UsageRecorder.
func (t *RateLimitTracker) RecordFromHeaders(endpoint string, headers http.Header) {
	resetAfter := headerInt(headers, headerResetAfter)

	t.mu.Lock()
	defer t.mu.Unlock()

	if used := headerInt(headers, headerZone1Usage); used >= 0 {
		t.recordUsageLocked(models.ZoneRead, used, headerInt(headers, headerZone1Limit), resetAfter)
	}
	if used := headerInt(headers, headerZone2Usage); used >= 0 {
		t.recordUsageLocked(models.ZoneWrite, used, headerInt(headers, headerZone2Limit), resetAfter)
	}

	t.logger.Debug("Rate limit status updated from headers",
		"endpoint", endpoint,
		"zone1_used", t.zones[models.ZoneRead].Used,
		"zone1_limit", t.zones[models.ZoneRead].Limit,
		"zone2_used", t.zones[models.ZoneWrite].Used,
		"zone2_limit", t.zones[models.ZoneWrite].Limit)
}

// CanProceed reports whether a call with the estimated cost fits under the
// zone's effective limit. This is a hard gate: callers must defer, not retry,
// when it returns false.
func (t *RateLimitTracker) CanProceed(zone models.RateLimitZone, estimatedCost int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.zones[zone]
	if !ok {
		return false
	}

	used := state.Used
	if time.Now().After(state.ResetAt) {
		// The remote window has rolled over; tracked usage is stale until
		// the next response reports fresh counters.
		used = 0
	}

	safetyBuffer := (state.Limit * t.config.SafetyBufferPercent) / 100
	return used+estimatedCost <= state.Limit-safetyBuffer
}

// Snapshot returns an atomic view of both zones.
func (t *RateLimitTracker) Snapshot() models.RateLimitSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	zone1 := *t.zones[models.ZoneRead]
	zone2 := *t.zones[models.ZoneWrite]

	last := zone1.UpdatedAt
	if zone2.UpdatedAt.After(last) {
		last = zone2.UpdatedAt
	}

	return models.RateLimitSnapshot{
		Zone1:       zone1,
		Zone2:       zone2,
		LastUpdated: last,
	}
}

// ZoneForEndpoint classifies an API endpoint into its rate-limit zone.
func ZoneForEndpoint(endpoint string) models.RateLimitZone {
	readOnlyPrefixes := []string{
		"/subscription/list",
		"/stream/contents/",
		"/stream/items/contents",
		"/user-info",
		"/unread-count",
	}

	for _, prefix := range readOnlyPrefixes {
		if endpoint == prefix || strings.HasPrefix(endpoint, prefix) {
			return models.ZoneRead
		}
	}

	return models.ZoneWrite
}

func headerInt(headers http.Header, key string) int {
	value := headers.Get(key)
	if value == "" {
		return -1
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return parsed
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
