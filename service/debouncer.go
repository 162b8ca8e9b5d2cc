// ABOUTME: Trailing debouncer coalescing mutation bursts into a single flush
// ABOUTME: The quiet window is measured from the last call in the burst

package service

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer collapses repeated Schedule calls within the quiet window into a
// single invocation of the most recently scheduled function, fired once the
// window elapses after the last call.
type Debouncer struct {
	window time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
}

// NewDebouncer creates a trailing debouncer with the given quiet window.
func NewDebouncer(window time.Duration, logger *slog.Logger) *Debouncer {
	if logger == nil {
		logger = slog.Default()
	}
	if window <= 0 {
		window = 500 * time.Millisecond
	}

	return &Debouncer{
		window: window,
		logger: logger,
	}
}

// Schedule arms (or re-arms) the flush. Each call restarts the quiet window;
// only the last scheduled function runs.
func (d *Debouncer) Schedule(flush func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = flush

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.window, d.fire)
}

// Cancel clears any pending flush without invoking it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	flush := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if flush != nil {
		flush()
	}
}
