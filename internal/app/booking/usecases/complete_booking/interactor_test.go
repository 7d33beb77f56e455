package complete_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func seedConfirmed(t *testing.T, f *usecasetest.Fixture, id string) {
	t.Helper()
	slot, err := domain.NewSlot(usecasetest.Day, 600, 660)
	require.NoError(t, err)
	f.SeedBooking(t, domain.ReconstructBooking(
		id, f.Coach.ID(), f.User.ID(), slot, domain.StatusConfirmed,
		"", false, usecasetest.Start, usecasetest.Start,
	))
}

func TestCompleteBooking(t *testing.T) {
	f := usecasetest.New(t)
	seedConfirmed(t, f, "b-1")

	err := NewInteractor(f.Deps).Execute(context.Background(), &Request{Principal: f.Coach, BookingID: "b-1"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, f.Booking(t, "b-1").Status())
	assert.Equal(t, []string{domain.EventBookingCompleted}, f.Kinds())
}

func TestCompleteBooking_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T, f *usecasetest.Fixture)
		actor   func(f *usecasetest.Fixture) domain.Principal
		wantErr error
	}{
		{
			name:    "pending cannot complete",
			seed:    func(t *testing.T, f *usecasetest.Fixture) { f.SeedPending(t, "b-1", 600, 660, "") },
			actor:   func(f *usecasetest.Fixture) domain.Principal { return f.Coach },
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "user cannot complete",
			seed:    func(t *testing.T, f *usecasetest.Fixture) { seedConfirmed(t, f, "b-1") },
			actor:   func(f *usecasetest.Fixture) domain.Principal { return f.User },
			wantErr: domain.ErrNotAuthorized,
		},
		{
			name: "user checked before reachability",
			seed: func(t *testing.T, f *usecasetest.Fixture) { f.SeedPending(t, "b-1", 600, 660, "") },
			actor: func(f *usecasetest.Fixture) domain.Principal {
				return f.User
			},
			wantErr: domain.ErrNotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := usecasetest.New(t)
			tt.seed(t, f)

			err := NewInteractor(f.Deps).Execute(context.Background(), &Request{Principal: tt.actor(f), BookingID: "b-1"})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.Kinds())
		})
	}
}
