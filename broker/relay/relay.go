// Package relay forwards game events between server instances over a message bus.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lithammer/shortuuid/v4"
	"tavern/types/message"
)

// Supported relay kinds.
const (
	KindNone     = "none"
	KindRabbitMQ = "amqp"
	KindKafka    = "kafka"
)

// ErrUnknownKind is returned for an unsupported relay kind.
var ErrUnknownKind = errors.New("unknown relay kind")

// Config selects and configures the relay.
type Config struct {
	Kind         string
	AMQPURL      string
	Exchange     string
	KafkaBrokers []string
	KafkaTopic   string
}

func encode(env message.Envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

func decode(b []byte) (message.Envelope, error) {
	var env message.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// Relay is implemented by RabbitMQ and Kafka.
type Relay interface {
	Send(ctx context.Context, env message.Envelope) error
	Listen(ctx context.Context, handle func(message.Envelope)) error
	Close() error
}

// Open creates the configured relay. It returns nil for KindNone.
func Open(ctx context.Context, config Config) (Relay, error) {
	switch config.Kind {
	case "", KindNone:
		return nil, nil
	case KindRabbitMQ:
		return DialRabbitMQ(ctx, config.AMQPURL, config.Exchange)
	case KindKafka:
		return NewKafka(config.KafkaBrokers, config.KafkaTopic, "tavern-"+shortuuid.New())
	default:
		return nil, fmt.Errorf("%q: %w", config.Kind, ErrUnknownKind)
	}
}
