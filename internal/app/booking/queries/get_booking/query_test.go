package get_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func TestGetBooking(t *testing.T) {
	f := usecasetest.New(t)
	f.SeedPending(t, "b-1", 600, 690, "pur-1")
	q := NewQuery(f.Store)

	for _, who := range []domain.Principal{f.Coach, f.User} {
		dto, err := q.Execute(context.Background(), &Request{Principal: who, BookingID: "b-1"})
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", dto.Date)
		assert.Equal(t, "10:00", dto.Start)
		assert.Equal(t, "11:30", dto.End)
		assert.Equal(t, "pending", dto.Status)
		assert.Equal(t, "pur-1", dto.PurchaseID)
	}

	_, err := q.Execute(context.Background(), &Request{Principal: usecasetest.Principal(t, "stranger"), BookingID: "b-1"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = q.Execute(context.Background(), &Request{Principal: f.Coach, BookingID: "missing"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
