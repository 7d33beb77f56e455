package create_package

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func storedPackage(t *testing.T, f *usecasetest.Fixture, id string) (*domain.Package, error) {
	t.Helper()
	var pkg *domain.Package
	err := f.Store.RunInTx(context.Background(), func(ctx context.Context, tx contracts.Tx) error {
		var err error
		pkg, err = tx.GetPackage(ctx, id)
		return err
	})
	return pkg, err
}

func TestCreatePackage_StoresPackageOwnedByCaller(t *testing.T) {
	f := usecasetest.New(t)
	f.Clock.Advance(time.Hour)

	resp, err := NewInteractor(f.Deps).Execute(context.Background(), &Request{
		Principal:    f.Coach,
		Name:         "  Five sessions  ",
		SessionCount: 5,
		ValidityDays: 30,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.PackageID)

	pkg, err := storedPackage(t, f, resp.PackageID)
	require.NoError(t, err)
	assert.Equal(t, "coach-c", pkg.CoachID())
	assert.Equal(t, "Five sessions", pkg.Name())
	assert.Equal(t, int64(5), pkg.SessionCount())
	assert.Equal(t, 30, pkg.ValidityDays())
	assert.Equal(t, usecasetest.Start.Add(time.Hour), pkg.CreatedAt())
	assert.Empty(t, f.Kinds(), "catalog changes are not relayed")
}

func TestCreatePackage_EachCallGetsNewID(t *testing.T) {
	f := usecasetest.New(t)
	interactor := NewInteractor(f.Deps)
	req := &Request{Principal: f.Coach, Name: "Pack", SessionCount: 1, ValidityDays: 1}

	first, err := interactor.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := interactor.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.PackageID, second.PackageID)
}

func TestCreatePackage_Rejected(t *testing.T) {
	f := usecasetest.New(t)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"anonymous caller", &Request{Name: "Pack", SessionCount: 5, ValidityDays: 30}, domain.ErrEmptyCoach},
		{"blank name", &Request{Principal: f.Coach, Name: "   ", SessionCount: 5, ValidityDays: 30}, domain.ErrEmptyPackageName},
		{"no sessions", &Request{Principal: f.Coach, Name: "Pack", SessionCount: 0, ValidityDays: 30}, domain.ErrInvalidSessionCount},
		{"negative sessions", &Request{Principal: f.Coach, Name: "Pack", SessionCount: -2, ValidityDays: 30}, domain.ErrInvalidSessionCount},
		{"no validity", &Request{Principal: f.Coach, Name: "Pack", SessionCount: 5, ValidityDays: 0}, domain.ErrInvalidValidity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewInteractor(f.Deps).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
		})
	}
	assert.Empty(t, f.Store.OutboxRecords())
}
