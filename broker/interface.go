package broker

import (
	"context"

	"tavern/types/message"
)

// Relay forwards events between server instances.
type Relay interface {
	// Send publishes the envelope to the other instances.
	Send(ctx context.Context, envelope message.Envelope) error
	// Listen calls handle for every envelope received until ctx is done.
	Listen(ctx context.Context, handle func(message.Envelope)) error
	Close() error
}

// Recorder receives broker statistics.
type Recorder interface {
	EventPublished(topic string)
	SubscriberDropped()
}

type nopRecorder struct{}

func (nopRecorder) EventPublished(string) {}
func (nopRecorder) SubscriberDropped()    {}
