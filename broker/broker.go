// Package broker fans game events out to the subscribers of each game.
package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
	"tavern/broker/channel"
	"tavern/broker/subscription"
	"tavern/types/message"
)

// DefaultQueueSize is the number of events buffered per subscriber.
const DefaultQueueSize = 64

const relayTimeout = 5 * time.Second

// Config contains the broker settings.
type Config struct {
	QueueSize int
	Relay     Relay
	Recorder  Recorder
}

// Broker keeps one channel per game.
type Broker struct {
	mu       sync.RWMutex
	channels map[string]*channel.Channel

	origin    string
	queueSize int
	relay     Relay
	recorder  Recorder
}

// New creates a broker.
func New(config Config) *Broker {
	b := &Broker{
		channels:  map[string]*channel.Channel{},
		origin:    shortuuid.New(),
		queueSize: config.QueueSize,
		relay:     config.Relay,
		recorder:  config.Recorder,
	}
	if b.queueSize <= 0 {
		b.queueSize = DefaultQueueSize
	}
	if b.recorder == nil {
		b.recorder = nopRecorder{}
	}
	return b
}

// Origin returns the id stamped on events this instance relays.
func (b *Broker) Origin() string {
	return b.origin
}

// Subscribe registers a new subscriber of the game.
func (b *Broker) Subscribe(gameID string) *subscription.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[gameID]
	if !ok {
		ch = channel.New()
		b.channels[gameID] = ch
	}
	sub := subscription.New(b.queueSize)
	ch.AddSubscription(sub)
	return sub
}

// Unsubscribe removes and closes the subscription.
func (b *Broker) Unsubscribe(gameID string, sub *subscription.Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[gameID]
	if !ok {
		sub.Close()
		return
	}
	ch.RemoveSubscription(sub)
	if ch.Len() == 0 {
		delete(b.channels, gameID)
	}
}

// Subscribers returns the number of subscribers of the game.
func (b *Broker) Subscribers(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.channels[gameID]; ok {
		return ch.Len()
	}
	return 0
}

// Publish delivers the event to the local subscribers of the game and hands it to the relay.
func (b *Broker) Publish(gameID string, event message.Event) error {
	b.deliver(gameID, event)

	if b.relay == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
	defer cancel()
	if err := b.relay.Send(ctx, message.Envelope{Origin: b.origin, GameID: gameID, Event: event}); err != nil {
		return fmt.Errorf("relay %s: %w", event.Topic, err)
	}
	return nil
}

func (b *Broker) deliver(gameID string, event message.Event) {
	b.recorder.EventPublished(event.Topic)

	// channels are only retired under the write lock, so holding the read
	// lock for the whole delivery keeps joiners off a retired channel
	b.mu.RLock()
	defer b.mu.RUnlock()
	ch, ok := b.channels[gameID]
	if !ok {
		return
	}

	for range ch.SendAll(event) {
		log.Warn().Str("game", gameID).Str("topic", event.Topic).Msg("subscriber is too slow, dropping it")
		b.recorder.SubscriberDropped()
	}
}

// Run consumes the relay until ctx is done. Without a relay it just waits.
func (b *Broker) Run(ctx context.Context) error {
	if b.relay == nil {
		<-ctx.Done()
		return nil
	}
	defer b.relay.Close()

	err := b.relay.Listen(ctx, func(env message.Envelope) {
		if env.Origin == b.origin {
			return
		}
		b.deliver(env.GameID, env.Event)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("relay listen: %w", err)
	}
	return nil
}
