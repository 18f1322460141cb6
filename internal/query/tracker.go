// Package query guards asynchronous loads against out-of-order resolution.
package query

import "sync"

// Ticket identifies one dispatched load.
type Ticket uint64

// Tracker hands out increasing tickets and accepts a resolution only when no
// newer dispatch has resolved before it.
type Tracker[T any] struct {
	mu       sync.Mutex
	issued   Ticket
	resolved Ticket
	value    T
	has      bool
}

// Dispatch registers a new load and returns its ticket.
func (t *Tracker[T]) Dispatch() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

// Resolve records value for ticket. It reports false and keeps the current
// value when a newer ticket already resolved.
func (t *Tracker[T]) Resolve(ticket Ticket, value T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket <= t.resolved || ticket > t.issued {
		return false
	}
	t.resolved = ticket
	t.value = value
	t.has = true
	return true
}

// IsCurrent reports whether ticket is the newest dispatch.
func (t *Tracker[T]) IsCurrent(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket == t.issued
}

// Latest returns the newest accepted value.
func (t *Tracker[T]) Latest() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.has
}
