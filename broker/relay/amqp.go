package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
	"tavern/types/message"
)

// DefaultExchange is the fanout exchange game events are published to.
const DefaultExchange = "tavern.events"

var errDeliveryClosed = errors.New("rabbitmq delivery channel closed")

// RabbitMQ relays events through a fanout exchange. Every instance binds its
// own exclusive queue, so every instance receives every event.
type RabbitMQ struct {
	url      string
	exchange string
	backoff  time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 10 * time.Second
)

// DialRabbitMQ connects to RabbitMQ, retrying until ctx is done.
func DialRabbitMQ(ctx context.Context, url, exchange string) (*RabbitMQ, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	r := &RabbitMQ{url: url, exchange: exchange, backoff: minBackoff}
	for {
		err := r.connect()
		if err == nil {
			return r, nil
		}
		log.Printf("Trying to reconnect to RabbitMQ: %v", err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		case <-time.After(r.backoff):
		}
	}
}

// connect dials a fresh connection, declares the exchange and swaps it in.
func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		r.exchange, // name
		"fanout",   // kind
		false,      // durable
		false,      // auto-delete
		false,      // internal
		false,      // no-wait
		nil,        // args
	); err != nil {
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", r.exchange, err)
	}

	r.mu.Lock()
	old := r.conn
	r.conn, r.ch = conn, ch
	r.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Send publishes the envelope to the exchange.
func (r *RabbitMQ) Send(_ context.Context, env message.Envelope) error {
	body, err := encode(env)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ch.Publish(
		r.exchange, // exchange
		"",         // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Listen consumes the exchange through an exclusive queue until ctx is done.
// A dropped connection is redialed and the queue declared again.
func (r *RabbitMQ) Listen(ctx context.Context, handle func(message.Envelope)) error {
	return keepListening(ctx, r.backoff,
		func(ctx context.Context) error { return r.consume(ctx, handle) },
		func(context.Context) error { return r.connect() },
	)
}

// keepListening runs consume until ctx is done. Whenever consume stops it
// calls reconnect, doubling the wait between failed attempts up to maxBackoff.
func keepListening(ctx context.Context, backoff time.Duration, consume, reconnect func(context.Context) error) error {
	for {
		err := consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().Err(err).Msg("rabbitmq consumer stopped, reconnecting")

		wait := backoff
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			err := reconnect(ctx)
			if err == nil {
				break
			}
			log.Warn().Err(err).Dur("retry_in", wait).Msg("Trying to reconnect to RabbitMQ")
			wait *= 2
			if wait > maxBackoff {
				wait = maxBackoff
			}
		}
	}
}

func (r *RabbitMQ) consume(ctx context.Context, handle func(message.Envelope)) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", r.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errDeliveryClosed
			}
			env, err := decode(d.Body)
			if err != nil {
				log.Warn().Err(err).Msg("skipping relayed event")
				continue
			}
			handle(env)
		}
	}
}

// Close closes the connection.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.Close()
}
