// Package dedupe makes downstream handlers idempotent under the relay's
// at-least-once delivery by remembering processed record ids.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/light-bringer/coachbook-service/internal/messaging"
)

// ErrMissingID is returned for messages without a record id.
var ErrMissingID = errors.New("message has no record id")

// Store remembers claimed message ids for a while.
type Store interface {
	// Claim records id and reports true if it was not already claimed.
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
	// Release forgets id so a later redelivery is processed again.
	Release(ctx context.Context, id string) error
}

// Consumer wraps a handler so each record id is handled at most once per TTL.
type Consumer struct {
	store  Store
	next   messaging.Handler
	ttl    time.Duration
	logger *slog.Logger
}

// NewConsumer wraps next.
func NewConsumer(store Store, next messaging.Handler, ttl time.Duration, logger *slog.Logger) *Consumer {
	return &Consumer{store: store, next: next, ttl: ttl, logger: logger}
}

// Handle claims msg.ID, then runs the wrapped handler. Duplicates are
// acknowledged without running it. If the handler fails the claim is
// released so the broker's redelivery is processed.
func (c *Consumer) Handle(ctx context.Context, msg messaging.Message) error {
	if msg.ID == "" {
		return ErrMissingID
	}

	fresh, err := c.store.Claim(ctx, msg.ID, c.ttl)
	if err != nil {
		return fmt.Errorf("claim %s: %w", msg.ID, err)
	}
	if !fresh {
		c.logger.Debug("duplicate message skipped",
			slog.String("message_id", msg.ID),
			slog.String("kind", msg.Kind),
		)
		return nil
	}

	if err := c.next.Handle(ctx, msg); err != nil {
		if relErr := c.store.Release(ctx, msg.ID); relErr != nil {
			c.logger.Error("failed to release dedupe claim",
				slog.String("message_id", msg.ID),
				slog.String("error", relErr.Error()),
			)
		}
		return err
	}
	return nil
}
