// Package channel provides the implementation of message channels.
package channel

import (
	"sync"

	"tavern/broker/subscription"
	"tavern/types/message"
)

// Channel represents a message channel that can have multiple subscribers.
type Channel struct {
	mu   sync.RWMutex
	subs []*subscription.Subscription
}

// New creates and initializes a new Channel instance.
func New() *Channel {
	return &Channel{
		subs: make([]*subscription.Subscription, 0),
	}
}

// SendAll sends the event to every subscription. Subscriptions that cannot
// accept it are removed, closed and returned.
func (c *Channel) SendAll(event message.Event) []*subscription.Subscription {
	c.mu.RLock()
	var dropped []*subscription.Subscription
	for _, sub := range c.subs {
		if !sub.Send(event) {
			dropped = append(dropped, sub)
		}
	}
	c.mu.RUnlock()

	for _, sub := range dropped {
		c.RemoveSubscription(sub)
	}
	return dropped
}

// AddSubscription adds a new Subscription Channel.
func (c *Channel) AddSubscription(sub *subscription.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, sub)
}

// RemoveSubscription removes a Subscription Channel.
func (c *Channel) RemoveSubscription(sub *subscription.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			sub.Close()
			return
		}
	}
}

// Len returns the number of subscriptions.
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
