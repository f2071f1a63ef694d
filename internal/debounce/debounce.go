// Package debounce coalesces rapid events into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the delay used for search input.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs the most recently scheduled function once the delay has
// elapsed without another call. Only one call is pending at a time.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
	seq      uint64
}

// New creates a debouncer; a non-positive duration falls back to DefaultDelay.
func New(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultDelay
	}
	return &Debouncer{duration: duration}
}

// Duration returns the configured delay.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Debounce schedules fn, superseding any pending call. A superseded call
// never runs, even when its timer already expired.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	mine := d.seq
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		if d.seq != mine {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate cancels any pending call and runs fn now.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
