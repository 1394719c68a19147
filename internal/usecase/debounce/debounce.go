// Package debounce coalesces bursts of input into one delayed emission.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for typed search input.
const DefaultDelay = 300 * time.Millisecond

// Debouncer emits the last scheduled value once the input has been quiet
// for the configured delay. Each Schedule bumps a generation; a timer whose
// generation is no longer current never fires, so an older value is never
// emitted after a newer one.
type Debouncer[T any] struct {
	delay     time.Duration
	onSettled func(T)

	// emitMu serializes emissions; it is taken before mu.
	emitMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	value   T
	stopped bool
}

// New creates a Debouncer. Non-positive delay falls back to DefaultDelay.
func New[T any](delay time.Duration, onSettled func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, onSettled: onSettled}
}

// Schedule replaces the pending value and restarts the quiet period.
func (d *Debouncer[T]) Schedule(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.value = v
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending value without emitting it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Flush emits the pending value now, if any. Reports whether a value was emitted.
// Must not be called from inside the onSettled callback.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	gen := d.gen
	d.mu.Unlock()
	return d.fire(gen)
}

// Pending reports whether a value is waiting to be emitted.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels the pending value; later Schedule calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Delay returns the quiet period.
func (d *Debouncer[T]) Delay() time.Duration { return d.delay }

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	var zero T
	d.value = zero
}

func (d *Debouncer[T]) fire(gen uint64) bool {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if gen != d.gen || !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	v := d.value
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if d.onSettled != nil {
		d.onSettled(v)
	}
	return true
}
