package notifier

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/outbox"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/messaging"
)

func message(t *testing.T, kind string) messaging.Message {
	t.Helper()
	body, err := json.Marshal(outbox.Envelope{
		RecordID:  "r-1",
		Kind:      kind,
		BookingID: "b-1",
		CoachID:   "coach-c",
		UserID:    "user-u",
		Data:      json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	return messaging.Message{ID: "r-1", Kind: kind, Body: body}
}

func TestHandler_Recipients(t *testing.T) {
	tests := []struct {
		kind       string
		recipients []string
	}{
		{"BookingRequested", []string{"coach-c"}},
		{"BookingConfirmed", []string{"user-u"}},
		{"BookingCancelled", []string{"user-u", "coach-c"}},
		{"BookingCompleted", []string{"user-u"}},
		{"SessionConsumed", []string{"user-u"}},
		{"SessionRefunded", []string{"user-u"}},
		{"SomethingElse", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var got []string
			h := NewHandler(logger.Discard(), func(n Notification) {
				got = append(got, n.RecipientID)
				assert.Equal(t, "b-1", n.BookingID)
			})
			require.NoError(t, h.Handle(context.Background(), message(t, tt.kind)))
			assert.Equal(t, tt.recipients, got)
		})
	}
}

func TestHandler_BadBody(t *testing.T) {
	h := NewHandler(logger.Discard(), nil)
	err := h.Handle(context.Background(), messaging.Message{ID: "r-1", Body: []byte("not json")})
	assert.Error(t, err)
}
