package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Events is the broker connection for booking lifecycle events
// (booking.pending, booking.confirmed, booking.cancelled). The server
// only constructs and publishes payloads; delivery to end devices is a
// downstream consumer's job. Nil when EVENT_BROKER_URL is unset.
var Events *EventPublisher

type EventPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func InitializeEvents() {
	url := os.Getenv("EVENT_BROKER_URL")
	if url == "" {
		log.Println("⚠️  EVENT_BROKER_URL not set, booking events will not be published")
		return
	}

	exchange := os.Getenv("EVENT_EXCHANGE")
	if exchange == "" {
		exchange = "bookandplay.events"
	}

	pub, err := newEventPublisher(url, exchange)
	if err != nil {
		log.Println("⚠️  Could not connect to event broker:", err)
		return
	}

	Events = pub
	log.Println("🔧 Event publisher initialized with exchange:", exchange)
}

func newEventPublisher(url, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &EventPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishJSON is a no-op on a nil publisher so callers don't have to
// care whether the broker is configured.
func (p *EventPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}

func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
