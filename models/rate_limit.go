// ABOUTME: This file defines rate limit zone state reported by the Inoreader API
// ABOUTME: Two independent zones cover read-oriented and write-oriented operations

package models

import "time"

// RateLimitZone identifies one of the two Inoreader rate limit buckets.
type RateLimitZone int

const (
	ZoneRead  RateLimitZone = 1 // Zone 1: read operations
	ZoneWrite RateLimitZone = 2 // Zone 2: write operations
)

func (z RateLimitZone) String() string {
	if z == ZoneWrite {
		return "zone2"
	}
	return "zone1"
}

// ZoneUsage is the tracked state of one zone. Used is clamped to [0, Limit]
// and never decreases except via the remote-reported reset.
type ZoneUsage struct {
	Used       int       `json:"used"`
	Limit      int       `json:"limit"`
	ResetAfter int       `json:"reset_after_seconds"`
	ResetAt    time.Time `json:"reset_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Percentage returns usage as a percentage of the limit.
func (u ZoneUsage) Percentage() float64 {
	if u.Limit == 0 {
		return 0.0
	}
	return (float64(u.Used) / float64(u.Limit)) * 100.0
}

// Remaining returns the calls left before the limit.
func (u ZoneUsage) Remaining() int {
	remaining := u.Limit - u.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RateLimitSnapshot is an atomic view of both zones.
type RateLimitSnapshot struct {
	Zone1       ZoneUsage `json:"zone1"`
	Zone2       ZoneUsage `json:"zone2"`
	LastUpdated time.Time `json:"last_updated"`
}
