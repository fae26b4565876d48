package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single trailing-edge fire
// once a quiet period has elapsed since the last trigger. At most one fire
// is pending at any time; each new trigger cancels and replaces it.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a debouncer with the given quiet window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn to run after the quiet window. A previously
// scheduled function that has not fired yet is cancelled, so a burst of
// triggers results in exactly one fire, carrying the last fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels any pending fire. It does not wait for a fire already in
// progress.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
