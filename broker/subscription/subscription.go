// Package subscription provides a bounded event queue of a single subscriber.
package subscription

import (
	"sync"

	"tavern/types/message"
)

// Subscription is the event queue of a single subscriber.
type Subscription struct {
	mu     sync.Mutex
	closed bool
	queue  chan message.Event
}

// New creates a subscription that buffers up to size events.
func New(size int) *Subscription {
	if size < 1 {
		size = 1
	}
	return &Subscription{
		queue: make(chan message.Event, size),
	}
}

// Send enqueues the event without blocking. It reports false when the queue
// is full or the subscription is closed.
func (s *Subscription) Send(event message.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.queue <- event:
		return true
	default:
		return false
	}
}

// Events returns the queue. It is closed together with the subscription.
func (s *Subscription) Events() <-chan message.Event {
	return s.queue
}

// Receive blocks until an event arrives. ok is false once the subscription is closed.
func (s *Subscription) Receive() (event message.Event, ok bool) {
	event, ok = <-s.queue
	return event, ok
}

// Close closes the queue. Closing twice is a no-op.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.queue)
	}
}

// Closed reports whether the subscription was closed.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
