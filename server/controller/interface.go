package controller

import (
	"tavern/broker/subscription"
	"tavern/types/message"
)

// Broker fans out the events of a game to its websocket subscribers.
type Broker interface {
	Publish(gameID string, event message.Event) error
	Subscribe(gameID string) *subscription.Subscription
	Unsubscribe(gameID string, sub *subscription.Subscription)
}

// Connections counts the open event streams.
type Connections interface {
	IncrementWebSocketConnections()
	DecrementWebSocketConnections()
}

type nopConnections struct{}

func (nopConnections) IncrementWebSocketConnections() {}
func (nopConnections) DecrementWebSocketConnections() {}
