package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/light-bringer/coachbook-service/internal/messaging"
)

// ConsumerConfig names the queue a Consumer reads and what it binds to.
type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Bindings []string // routing keys; "#" for every event kind
	Prefetch int
	Tag      string
}

// Consumer feeds deliveries to a Handler and reconnects with backoff when
// the broker goes away.
type Consumer struct {
	cfg     ConsumerConfig
	handler messaging.Handler
	logger  *slog.Logger
}

// NewConsumer creates a Consumer.
func NewConsumer(cfg ConsumerConfig, handler messaging.Handler, logger *slog.Logger) *Consumer {
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = []string{"#"}
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 16
	}
	return &Consumer{cfg: cfg, handler: handler, logger: logger}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("amqp consumer disconnected",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := c.declare(ch); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.logger.Info("amqp consumer started", slog.String("queue", c.cfg.Queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.dispatch(ctx, d)
		}
	}
}

func (c *Consumer) declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

// dispatch acks handled messages. A failed message is requeued once and
// dropped if it fails again on redelivery.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	msg := toMessage(d)
	if err := c.handler.Handle(ctx, msg); err != nil {
		c.logger.Error("message handling failed",
			slog.String("message_id", msg.ID),
			slog.String("kind", msg.Kind),
			slog.Bool("redelivered", msg.Redelivered),
			slog.String("error", err.Error()),
		)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func toMessage(d amqp.Delivery) messaging.Message {
	kind := d.Type
	if kind == "" {
		kind = d.RoutingKey
	}
	return messaging.Message{
		ID:          d.MessageId,
		Kind:        kind,
		Body:        d.Body,
		Redelivered: d.Redelivered,
	}
}
