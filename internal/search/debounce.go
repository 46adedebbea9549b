package search

import (
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. Tests swap in a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs only the most recently triggered function, once the delay
// has passed without another trigger. Every trigger stops the armed timer and
// starts a new one.
type Debouncer struct {
	delay time.Duration
	after AfterFunc

	mu      sync.Mutex
	timer   Timer
	pending func()
	gen     uint64
}

func NewDebouncer(delay time.Duration, after AfterFunc) *Debouncer {
	if after == nil {
		after = RealAfterFunc
	}
	return &Debouncer{delay: delay, after: after}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending call, if any. It reports whether one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Flush runs the pending call now instead of waiting for the timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) cancelLocked() bool {
	had := d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = nil
	d.pending = nil
	d.gen++
	return had
}

// fire ignores timers that were superseded after they had already expired.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}
