// Package bridge bounds the rate of outbound change notifications. Its
// debouncer is trailing-edge: a burst of calls for the same key collapses
// into one delivery of the most recent value, fired once the key has been
// quiet for a full window.
package bridge

import "time"

// Debouncer coalesces calls per key. Call arms or re-arms the key's
// quiescence window with the latest value; Flush delivers values whose
// window elapsed. Driven by an explicit clock so it needs no timers of
// its own. Not safe for concurrent use.
type Debouncer[K comparable, V any] struct {
	window  time.Duration
	fire    func(K, V)
	pending map[K]pendingValue[V]
}

type pendingValue[V any] struct {
	value    V
	deadline time.Time
}

// NewDebouncer creates a debouncer delivering through fire.
func NewDebouncer[K comparable, V any](window time.Duration, fire func(K, V)) *Debouncer[K, V] {
	return &Debouncer[K, V]{
		window:  window,
		fire:    fire,
		pending: map[K]pendingValue[V]{},
	}
}

// Call records the latest value for the key and restarts its window.
func (d *Debouncer[K, V]) Call(key K, value V, now time.Time) {
	d.pending[key] = pendingValue[V]{value: value, deadline: now.Add(d.window)}
}

// Flush delivers every pending value whose window has elapsed and
// returns how many were delivered.
func (d *Debouncer[K, V]) Flush(now time.Time) int {
	fired := 0
	for key, p := range d.pending {
		if now.Before(p.deadline) {
			continue
		}
		delete(d.pending, key)
		d.fire(key, p.value)
		fired++
	}
	return fired
}

// Discard drops all pending values without delivering them, as teardown
// does.
func (d *Debouncer[K, V]) Discard() {
	clear(d.pending)
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer[K, V]) Pending() int { return len(d.pending) }
