package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Sink delivers one event synchronously.
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

// NopSink drops every event. Used when no broker is configured.
type NopSink struct{}

func (NopSink) Send(context.Context, Event) error { return nil }
func (NopSink) Close() error                       { return nil }

// AMQPSink publishes events as persistent JSON messages on durable queues
// through the default exchange. The connection is dialled lazily and
// re-dialled after a failure.
type AMQPSink struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

// NewAMQPSink creates a sink for the broker at url.
func NewAMQPSink(url string) *AMQPSink {
	return &AMQPSink{url: url, declared: make(map[string]bool)}
}

// Send publishes ev to its queue.
func (s *AMQPSink) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Queue(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.channel()
	if err != nil {
		return err
	}

	queue := ev.Queue()
	if !s.declared[queue] {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			s.reset()
			return fmt.Errorf("queue declare %s: %w", queue, err)
		}
		s.declared[queue] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		s.reset()
		return fmt.Errorf("publish %s: %w", queue, err)
	}
	return nil
}

// Close shuts the channel and connection down.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *AMQPSink) channel() (*amqp.Channel, error) {
	if s.ch != nil && !s.ch.IsClosed() {
		return s.ch, nil
	}
	s.reset()

	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	s.conn, s.ch = conn, ch
	return ch, nil
}

// reset drops the current connection; callers hold mu.
func (s *AMQPSink) reset() {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.ch, s.conn = nil, nil
	s.declared = make(map[string]bool)
}
