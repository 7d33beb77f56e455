// Package notifier turns relayed booking events into user-facing
// notifications. Delivery channels are out of scope; notifications are
// written to the structured log.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/outbox"
	"github.com/light-bringer/coachbook-service/internal/messaging"
)

// Notification is what would be sent to a recipient.
type Notification struct {
	RecipientID string
	Subject     string
	BookingID   string
	PurchaseID  string
}

// Handler decodes envelopes and emits notifications.
type Handler struct {
	logger *slog.Logger
	sent   func(Notification)
}

// NewHandler creates a Handler. sent, if non-nil, observes every notification.
func NewHandler(logger *slog.Logger, sent func(Notification)) *Handler {
	return &Handler{logger: logger, sent: sent}
}

var _ messaging.Handler = (*Handler)(nil)

// Handle implements messaging.Handler. Unknown kinds are acknowledged and
// ignored.
func (h *Handler) Handle(_ context.Context, msg messaging.Message) error {
	env, err := outbox.DecodeEnvelope(msg.Body)
	if err != nil {
		return fmt.Errorf("decode envelope %s: %w", msg.ID, err)
	}

	for _, n := range notificationsFor(env) {
		h.logger.Info("notification",
			slog.String("record_id", env.RecordID),
			slog.String("kind", env.Kind),
			slog.String("recipient_id", n.RecipientID),
			slog.String("subject", n.Subject),
		)
		if h.sent != nil {
			h.sent(n)
		}
	}
	return nil
}

func notificationsFor(env *outbox.Envelope) []Notification {
	to := func(recipient, subject string) Notification {
		return Notification{
			RecipientID: recipient,
			Subject:     subject,
			BookingID:   env.BookingID,
			PurchaseID:  env.PurchaseID,
		}
	}

	switch env.Kind {
	case domain.EventBookingRequested:
		return []Notification{to(env.CoachID, "New booking request")}
	case domain.EventBookingConfirmed:
		return []Notification{to(env.UserID, "Your booking is confirmed")}
	case domain.EventBookingCancelled:
		return []Notification{
			to(env.UserID, "Booking cancelled"),
			to(env.CoachID, "Booking cancelled"),
		}
	case domain.EventBookingCompleted:
		return []Notification{to(env.UserID, "Session completed")}
	case domain.EventSessionConsumed:
		return []Notification{to(env.UserID, "A session was used from your package")}
	case domain.EventSessionRefunded:
		return []Notification{to(env.UserID, "A session was returned to your package")}
	default:
		return nil
	}
}
