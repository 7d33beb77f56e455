package get_purchase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func TestGetPurchase(t *testing.T) {
	f := usecasetest.New(t)
	f.SeedPurchase(t, 5, 30)
	q := NewQuery(f.Store, f.Clock)
	ctx := context.Background()

	t.Run("buyer and coach can read", func(t *testing.T) {
		for _, p := range []domain.Principal{f.User, f.Coach} {
			dto, err := q.Execute(ctx, &Request{Principal: p, PurchaseID: "pur-1"})
			require.NoError(t, err)
			assert.Equal(t, int64(5), dto.SessionCount)
			assert.Equal(t, int64(5), dto.Remaining)
			assert.False(t, dto.Expired)
		}
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := q.Execute(ctx, &Request{Principal: usecasetest.Principal(t, "someone"), PurchaseID: "pur-1"})
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("unknown purchase", func(t *testing.T) {
		_, err := q.Execute(ctx, &Request{Principal: f.User, PurchaseID: "missing"})
		assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
	})

	t.Run("expired after validity", func(t *testing.T) {
		f.Clock.Advance(31 * 24 * time.Hour)
		dto, err := q.Execute(ctx, &Request{Principal: f.User, PurchaseID: "pur-1"})
		require.NoError(t, err)
		assert.True(t, dto.Expired)
	})
}
