package coordinator

import (
	"sync"
	"time"
)

// Debouncer keeps the most recent value pushed to it and hands that value to
// fire once no push has arrived for the delay. Earlier values are replaced,
// not queued. fire calls never overlap. Safe for concurrent use.
type Debouncer[T any] struct {
	delay time.Duration
	fire  func(T)

	mu    sync.Mutex
	timer *time.Timer
	value *T
	gen   uint64 // identifies the push that armed the timer

	firing sync.Mutex
}

// NewDebouncer creates a debouncer that calls fire with the latest value.
func NewDebouncer[T any](delay time.Duration, fire func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fire: fire}
}

// Push replaces the waiting value with v and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.value = &v
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if v, ok := d.take(gen); ok {
			d.run(v)
		}
	})
}

// Flush fires the waiting value now. It does nothing when nothing waits.
func (d *Debouncer[T]) Flush() {
	if v, ok := d.take(0); ok {
		d.run(v)
	}
}

// Take removes and returns the waiting value without firing it.
func (d *Debouncer[T]) Take() (T, bool) {
	return d.take(0)
}

// Cancel drops the waiting value.
func (d *Debouncer[T]) Cancel() {
	d.take(0)
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value != nil
}

// take removes the waiting value. A non-zero gen only matches the push that
// armed the current timer, so a timer outlived by a later push does nothing.
func (d *Debouncer[T]) take(gen uint64) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if d.value == nil || (gen != 0 && gen != d.gen) {
		return zero, false
	}
	v := *d.value
	d.value = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return v, true
}

func (d *Debouncer[T]) run(v T) {
	if d.fire == nil {
		return
	}
	d.firing.Lock()
	defer d.firing.Unlock()
	d.fire(v)
}
