package purchase_package

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/create_package"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func TestCreateAndPurchasePackage(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()

	created, err := create_package.NewInteractor(f.Deps).Execute(ctx, &create_package.Request{
		Principal:    f.Coach,
		Name:         "Ten sessions",
		SessionCount: 10,
		ValidityDays: 90,
	})
	require.NoError(t, err)

	f.Clock.Advance(time.Hour)
	resp, err := NewInteractor(f.Deps).Execute(ctx, &Request{Principal: f.User, PackageID: created.PackageID})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.SessionCount)
	assert.Equal(t, usecasetest.Start.Add(time.Hour).Add(90*24*time.Hour), resp.ExpiresAt)

	p := f.Purchase(t, resp.PurchaseID)
	assert.Equal(t, "user-u", p.UserID())
	assert.Equal(t, "coach-c", p.CoachID())
	assert.Equal(t, created.PackageID, p.PackageID())
	assert.Zero(t, p.SessionsUsed())
	assert.Empty(t, f.Kinds(), "catalog changes are not relayed")
}

func TestCreatePackage_Validation(t *testing.T) {
	f := usecasetest.New(t)
	uc := create_package.NewInteractor(f.Deps)

	tests := []struct {
		name    string
		req     create_package.Request
		wantErr error
	}{
		{"blank name", create_package.Request{Principal: f.Coach, Name: "  ", SessionCount: 1, ValidityDays: 1}, domain.ErrEmptyPackageName},
		{"no sessions", create_package.Request{Principal: f.Coach, Name: "x", SessionCount: 0, ValidityDays: 1}, domain.ErrInvalidSessionCount},
		{"no validity", create_package.Request{Principal: f.Coach, Name: "x", SessionCount: 1, ValidityDays: 0}, domain.ErrInvalidValidity},
		{"anonymous coach", create_package.Request{Name: "x", SessionCount: 1, ValidityDays: 1}, domain.ErrEmptyCoach},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPurchasePackage_UnknownPackage(t *testing.T) {
	f := usecasetest.New(t)
	_, err := NewInteractor(f.Deps).Execute(context.Background(), &Request{Principal: f.User, PackageID: "missing"})
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}
