// ABOUTME: This file defines sync run outcome records and the health snapshot model
// ABOUTME: Runs feed the orchestrator's rolling history and the health monitor's error rate

package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncTrigger distinguishes scheduled runs from operator-triggered ones.
type SyncTrigger string

const (
	TriggerScheduled SyncTrigger = "scheduled"
	TriggerManual    SyncTrigger = "manual"
)

// SyncRunStatus is the outcome classification of a run.
type SyncRunStatus string

const (
	RunCompleted SyncRunStatus = "completed"
	RunPartial   SyncRunStatus = "partial"
	RunFailed    SyncRunStatus = "failed"
)

// SyncRun records one pull+push cycle outcome.
type SyncRun struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	Trigger         SyncTrigger   `json:"trigger" db:"trigger"`
	Status          SyncRunStatus `json:"status" db:"status"`
	StartedAt       time.Time     `json:"started_at" db:"started_at"`
	FinishedAt      time.Time     `json:"finished_at" db:"finished_at"`
	NewArticles     int           `json:"new_articles" db:"new_articles"`
	DeletedArticles int           `json:"deleted_articles" db:"deleted_articles"`
	NewTags         int           `json:"new_tags" db:"new_tags"`
	FailedFeeds     int           `json:"failed_feeds" db:"failed_feeds"`
	PushedEntries   int           `json:"pushed_entries" db:"pushed_entries"`
	DeferredEntries int           `json:"deferred_entries" db:"deferred_entries"`
	Error           string        `json:"error,omitempty" db:"last_error"`
}

// NewSyncRun starts a run record.
func NewSyncRun(trigger SyncTrigger) *SyncRun {
	return &SyncRun{
		ID:        uuid.New(),
		Trigger:   trigger,
		Status:    RunCompleted,
		StartedAt: time.Now(),
	}
}

// Finish stamps the end time and final status.
func (r *SyncRun) Finish(status SyncRunStatus, err error) {
	r.FinishedAt = time.Now()
	r.Status = status
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration returns the wall time of the run.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// HealthStatus is the derived overall service status.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// DependencyStatus is the probe result for a single dependency.
type DependencyStatus struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// HealthSnapshot is the health monitor's view of current system state.
type HealthSnapshot struct {
	Status       HealthStatus `json:"status"`
	Uptime       string       `json:"uptime"`
	LastActivity time.Time    `json:"last_activity"`
	ErrorCount   int          `json:"error_count"`
	Dependencies struct {
		Database DependencyStatus `json:"database"`
		Auth     DependencyStatus `json:"auth"`
		Queue    DependencyStatus `json:"queue"`
	} `json:"dependencies"`
	Performance struct {
		AvgSyncTimeMs    int64 `json:"avg_sync_time_ms"`
		AvgAPICallTimeMs int64 `json:"avg_api_call_time_ms"`
	} `json:"performance"`
	Timestamp time.Time `json:"timestamp"`
}
