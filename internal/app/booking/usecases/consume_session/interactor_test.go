package consume_session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func TestConsumeSession(t *testing.T) {
	f := usecasetest.New(t)
	purchase := f.SeedPurchase(t, 5, 30)
	uc := NewInteractor(f.Deps)

	resp, err := uc.Execute(context.Background(), &Request{Principal: f.Coach, PurchaseID: purchase.ID(), Count: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.SessionsUsed)
	assert.Equal(t, int64(2), resp.Remaining)
	assert.Equal(t, []string{domain.EventSessionConsumed}, f.Kinds())

	env := f.Envelopes(t)[0]
	assert.Empty(t, env.BookingID)
	var data struct {
		Count        int64 `json:"count"`
		SessionsUsed int64 `json:"sessions_used"`
	}
	usecasetest.Data(t, env, &data)
	assert.Equal(t, int64(3), data.Count)
	assert.Equal(t, int64(3), data.SessionsUsed)
}

func TestConsumeSession_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		actor   func(f *usecasetest.Fixture) domain.Principal
		advance time.Duration
		wantErr error
	}{
		{"zero count", 0, coach, 0, domain.ErrInvalidSessionCount},
		{"negative count", -1, coach, 0, domain.ErrInvalidSessionCount},
		{"buyer cannot record sessions", 1, user, 0, domain.ErrNotAuthorized},
		{"more than remaining", 6, coach, 0, domain.ErrSessionExhausted},
		{"expired", 1, coach, 30 * 24 * time.Hour, domain.ErrPurchaseExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := usecasetest.New(t)
			purchase := f.SeedPurchase(t, 5, 30)
			f.Clock.Advance(tt.advance)

			_, err := NewInteractor(f.Deps).Execute(context.Background(), &Request{
				Principal:  tt.actor(f),
				PurchaseID: purchase.ID(),
				Count:      tt.count,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.Purchase(t, purchase.ID()).SessionsUsed())
			assert.Empty(t, f.Kinds())
		})
	}
}

func coach(f *usecasetest.Fixture) domain.Principal { return f.Coach }
func user(f *usecasetest.Fixture) domain.Principal  { return f.User }
