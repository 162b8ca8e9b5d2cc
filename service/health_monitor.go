// ABOUTME: Health monitor probing database, auth, and queue state
// ABOUTME: Derives healthy/degraded/unhealthy and tracks rolling latency averages

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sync-hub/models"
	"sync-hub/repository"
)

// Pinger is the subset of *sql.DB the health monitor needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthMonitorConfig holds the thresholds that separate healthy from
// degraded operation.
type HealthMonitorConfig struct {
	BacklogThreshold   int
	ErrorRateThreshold float64
	RecentRunWindow    int
	ProbeTimeout       time.Duration
}

// DefaultHealthMonitorConfig returns the default thresholds.
func DefaultHealthMonitorConfig() HealthMonitorConfig {
	return HealthMonitorConfig{
		BacklogThreshold:   500,
		ErrorRateThreshold: 0.5,
		RecentRunWindow:    20,
		ProbeTimeout:       5 * time.Second,
	}
}

// rolling keeps a bounded window of duration samples.
type rolling struct {
	samples []time.Duration
	next    int
	filled  bool
}

func newRolling(size int) *rolling {
	return &rolling{samples: make([]time.Duration, size)}
}

func (r *rolling) add(d time.Duration) {
	r.samples[r.next] = d
	r.next = (r.next + 1) % len(r.samples)
	if r.next == 0 {
		r.filled = true
	}
}

func (r *rolling) average() time.Duration {
	n := r.next
	if r.filled {
		n = len(r.samples)
	}
	if n == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < n; i++ {
		total += r.samples[i]
	}
	return total / time.Duration(n)
}

// HealthMonitor probes the service's dependencies on demand and aggregates
// recent run outcomes into an overall status.
type HealthMonitor struct {
	config    HealthMonitorConfig
	db        Pinger
	api       InoreaderAPI
	queueRepo repository.SyncQueueRepository
	runRepo   repository.SyncRunRepository
	logger    *slog.Logger
	startedAt time.Time

	mu           sync.Mutex
	apiLatency   *rolling
	syncLatency  *rolling
	errorCount   int
	lastActivity time.Time
}

// NewHealthMonitor creates a new health monitor.
func NewHealthMonitor(
	config HealthMonitorConfig,
	db Pinger,
	api InoreaderAPI,
	queueRepo repository.SyncQueueRepository,
	runRepo repository.SyncRunRepository,
	logger *slog.Logger,
) *HealthMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BacklogThreshold <= 0 {
		config.BacklogThreshold = DefaultHealthMonitorConfig().BacklogThreshold
	}
	if config.ErrorRateThreshold <= 0 {
		config.ErrorRateThreshold = DefaultHealthMonitorConfig().ErrorRateThreshold
	}
	if config.RecentRunWindow <= 0 {
		config.RecentRunWindow = DefaultHealthMonitorConfig().RecentRunWindow
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultHealthMonitorConfig().ProbeTimeout
	}

	return &HealthMonitor{
		config:      config,
		db:          db,
		api:         api,
		queueRepo:   queueRepo,
		runRepo:     runRepo,
		logger:      logger,
		startedAt:   time.Now(),
		apiLatency:  newRolling(50),
		syncLatency: newRolling(20),
	}
}

// RecordAPICall feeds one API call outcome into the rolling window. It
// satisfies the driver's call observer hook.
func (m *HealthMonitor) RecordAPICall(endpoint string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apiLatency.add(duration)
	m.lastActivity = time.Now()
	if err != nil {
		m.errorCount++
		m.logger.Debug("API call error recorded", "endpoint", endpoint, "error", err)
	}
}

// RecordSyncRun feeds one full sync run duration into the rolling window.
func (m *HealthMonitor) RecordSyncRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.syncLatency.add(duration)
	m.lastActivity = time.Now()
}

// Check probes all dependencies and returns the derived snapshot. A failed
// database or auth probe, or an elevated recent-run error rate, makes the
// service unhealthy; a queue backlog past threshold only degrades it.
func (m *HealthMonitor) Check(ctx context.Context) models.HealthSnapshot {
	probeCtx, cancel := context.WithTimeout(ctx, m.config.ProbeTimeout)
	defer cancel()

	snapshot := models.HealthSnapshot{
		Status:    models.HealthHealthy,
		Uptime:    time.Since(m.startedAt).Round(time.Second).String(),
		Timestamp: time.Now(),
	}

	snapshot.Dependencies.Database = m.probeDatabase(probeCtx)
	snapshot.Dependencies.Auth = m.probeAuth(probeCtx)
	snapshot.Dependencies.Queue = m.probeQueue(probeCtx)

	unhealthy := !snapshot.Dependencies.Database.Healthy ||
		!snapshot.Dependencies.Auth.Healthy ||
		m.recentErrorRateElevated(probeCtx)

	if unhealthy {
		snapshot.Status = models.HealthUnhealthy
	} else if !snapshot.Dependencies.Queue.Healthy {
		snapshot.Status = models.HealthDegraded
	}

	m.mu.Lock()
	snapshot.LastActivity = m.lastActivity
	snapshot.ErrorCount = m.errorCount
	snapshot.Performance.AvgAPICallTimeMs = m.apiLatency.average().Milliseconds()
	snapshot.Performance.AvgSyncTimeMs = m.syncLatency.average().Milliseconds()
	m.mu.Unlock()

	return snapshot
}

func (m *HealthMonitor) probeDatabase(ctx context.Context) models.DependencyStatus {
	if err := m.db.PingContext(ctx); err != nil {
		return models.DependencyStatus{Healthy: false, Detail: err.Error()}
	}
	return models.DependencyStatus{Healthy: true}
}

func (m *HealthMonitor) probeAuth(ctx context.Context) models.DependencyStatus {
	if err := m.api.ValidateAuth(ctx); err != nil {
		return models.DependencyStatus{Healthy: false, Detail: err.Error()}
	}
	return models.DependencyStatus{Healthy: true}
}

func (m *HealthMonitor) probeQueue(ctx context.Context) models.DependencyStatus {
	stats, err := m.queueRepo.CountsByStatus(ctx)
	if err != nil {
		return models.DependencyStatus{Healthy: false, Detail: err.Error()}
	}
	if backlog := stats.Backlog(); backlog > m.config.BacklogThreshold {
		return models.DependencyStatus{
			Healthy: false,
			Detail:  fmt.Sprintf("queue backlog %d exceeds threshold %d", backlog, m.config.BacklogThreshold),
		}
	}
	return models.DependencyStatus{Healthy: true}
}

// recentErrorRateElevated checks whether the share of failed runs in the
// recent window exceeds the configured threshold.
func (m *HealthMonitor) recentErrorRateElevated(ctx context.Context) bool {
	runs, err := m.runRepo.ListRecent(ctx, m.config.RecentRunWindow)
	if err != nil {
		m.logger.Warn("Failed to load recent sync runs for health check", "error", err)
		return false
	}
	if len(runs) == 0 {
		return false
	}

	failed := 0
	for _, run := range runs {
		if run.Status == models.RunFailed {
			failed++
		}
	}
	return float64(failed)/float64(len(runs)) > m.config.ErrorRateThreshold
}
