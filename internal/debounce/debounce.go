// Package debounce collapses bursts of updates into a single call made after a
// quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/jagadeeshD3/portfolio/internal/clock"
)

// Debouncer delivers the latest triggered value to fn once no new value has
// arrived for the quiet period. At most one delivery is pending at a time.
type Debouncer[T any] struct {
	mu      sync.Mutex
	clock   clock.Clock
	quiet   time.Duration
	fn      func(T)
	timer   clock.Timer
	gen     uint64
	pending T
	has     bool
	stopped bool
}

func New[T any](clk clock.Clock, quiet time.Duration, fn func(T)) *Debouncer[T] {
	if clk == nil {
		clk = clock.Real()
	}
	return &Debouncer[T]{clock: clk, quiet: quiet, fn: fn}
}

// Trigger replaces the pending value and restarts the quiet period.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	d.has = true
	d.cancelLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.quiet, func() { d.fire(gen) })
}

// Flush delivers the pending value immediately. It reports whether there was
// one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.has {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	v := d.takeLocked()
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether a delivery is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.has
}

// Cancel drops the pending value without disabling the debouncer.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.takeLocked()
}

// Stop drops any pending value. Later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.takeLocked()
	d.stopped = true
}

func (d *Debouncer[T]) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) takeLocked() T {
	v := d.pending
	var zero T
	d.pending = zero
	d.has = false
	return v
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped || !d.has {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.takeLocked()
	d.mu.Unlock()

	d.fn(v)
}
