// Package rabbitmq carries relayed outbox records over RabbitMQ.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
)

// ErrNacked is returned when the broker refuses a published message.
var ErrNacked = errors.New("broker nacked message")

// Publisher publishes outbox records to a topic exchange with publisher
// confirms. Publish returns only after the broker acked the message, so a nil
// error is the acknowledgement the relay waits for.
type Publisher struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange, logger: logger}
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

// Publish sends rec with its record id as MessageId and its event type as
// routing key, then waits for the broker confirm or ctx.
func (p *Publisher) Publish(ctx context.Context, rec *contracts.OutboxRecord) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, rec.EventType, false, false, newPublishing(rec))
	if err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", rec.RecordID, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm %s: %w", rec.RecordID, err)
	}
	if !acked {
		return fmt.Errorf("%w: %s", ErrNacked, rec.RecordID)
	}
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

func newPublishing(rec *contracts.OutboxRecord) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    rec.RecordID,
		Type:         rec.EventType,
		Timestamp:    rec.CreatedAt,
		Headers: amqp.Table{
			"aggregate_id": rec.AggregateID,
		},
		Body: rec.Payload,
	}
}

// channel returns the open confirm-mode channel, redialing after a broker
// disconnect.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	p.ch = ch
	p.logger.Info("amqp publisher connected", slog.String("exchange", p.exchange))
	return ch, nil
}

func (p *Publisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
}
