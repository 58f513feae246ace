package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	kafka "github.com/segmentio/kafka-go"
	"tavern/types/message"
)

// DefaultTopic is the Kafka topic game events are published to.
const DefaultTopic = "tavern-events"

// Kafka relays events through a topic. Each instance reads with its own
// consumer group, so every instance receives every event.
type Kafka struct {
	reader *kafka.Reader
	writer *kafka.Writer
}

// NewKafka creates a Kafka relay. group must be unique per instance.
func NewKafka(brokers []string, topic, group string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     group,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.LastOffset,
	})
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		BatchSize:              1,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Kafka{reader: reader, writer: writer}, nil
}

// Send writes the envelope keyed by game so events of a game stay ordered.
func (k *Kafka) Send(ctx context.Context, env message.Envelope) error {
	body, err := encode(env)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.GameID),
		Value: body,
	})
}

// Listen reads the topic until ctx is done.
func (k *Kafka) Listen(ctx context.Context, handle func(message.Envelope)) error {
	for {
		msg, err := k.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read kafka message: %w", err)
		}
		env, err := decode(msg.Value)
		if err != nil {
			log.Warn().Err(err).Msg("skipping relayed event")
			continue
		}
		handle(env)
	}
}

// Close closes the reader and the writer.
func (k *Kafka) Close() error {
	return errors.Join(k.reader.Close(), k.writer.Close())
}
