// ABOUTME: Per-field debouncer: each edit cancels the pending save and schedules a fresh one.
// ABOUTME: One debouncer per editable field, so fields never steal each other's timers.
package editor

import (
	"sync"
	"time"
)

// DefaultDebounce is how long a field stays quiet before its save fires.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces a burst of triggers into a single callback after the
// configured delay. Safe for concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

// NewDebouncer returns a debouncer firing delay after the last Trigger.
// A non-positive delay falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling any previously scheduled callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.timer = nil
		d.fn = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.fn = nil
	}
}

// Flush runs the pending callback immediately instead of waiting out the
// delay. It is a no-op when nothing is scheduled.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.fn
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.fn = nil
	}
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}
