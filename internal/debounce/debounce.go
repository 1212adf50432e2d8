// Package debounce coalesces bursts of trigger calls into one delayed invocation.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays action until delay has passed without a new Trigger.
// Each Debouncer owns a single pending-timer slot: a Trigger replaces the
// pending value and restarts the delay. Only the last value is ever passed
// to action, exactly once. Safe for concurrent use.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	action  func(T)
	timer   *time.Timer
	pending T
	armed   bool
	gen     uint64
}

// New returns a Debouncer that runs action delay after the last Trigger.
func New[T any](delay time.Duration, action func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, action: action}
}

// Trigger records v as the pending value and restarts the delay.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs the action if gen is still the latest trigger. A timer that
// already fired when Stop was called would otherwise run a superseded value.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.clear()
	d.mu.Unlock()

	d.action(v)
}

// Flush runs the pending action immediately, if any, and reports whether it ran.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.pending
	d.clear()
	d.mu.Unlock()

	d.action(v)
	return true
}

// Stop cancels the pending invocation without running it.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.clear()
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// clear drops the pending slot. Callers hold mu.
func (d *Debouncer[T]) clear() {
	var zero T
	d.pending = zero
	d.armed = false
	d.timer = nil
	d.gen++
}
