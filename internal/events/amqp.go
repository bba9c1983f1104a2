package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restaurant_service/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher writes events to a durable topic exchange, keyed by event
// type.
type AMQPPublisher struct {
	url    string
	log    *logger.Logger
	mu     sync.Mutex
	conn   *amqp091.Connection
	ch     *amqp091.Channel
	closed bool
}

func Dial(url string, log *logger.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials with a short linear backoff and declares the exchange.
func (p *AMQPPublisher) connect() error {
	const maxRetries = 5
	var err error

	for i := 0; i < maxRetries; i++ {
		if err = p.open(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			wait := time.Duration(i+1) * time.Second
			p.log.Warn("rabbitmq_connect", "", fmt.Sprintf("connect failed, retrying in %v", wait),
				slog.String("error", err.Error()))
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

func (p *AMQPPublisher) open() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare %s exchange: %w", Exchange, err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}
	if p.conn == nil || p.conn.IsClosed() {
		if err := p.open(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		Exchange,   // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.Time,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.log.Debug("event_published", "", "published kitchen event",
		slog.String("routing_key", event.Type),
		slog.Int("message_size", len(body)))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}
