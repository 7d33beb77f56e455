package create_package

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request defines a package offered by the calling coach.
type Request struct {
	Principal    domain.Principal
	Name         string
	SessionCount int64
	ValidityDays int
}

// Response carries the new package id.
type Response struct {
	PackageID string
}

// Interactor handles the create package use case.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new create package interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute stores a new package owned by the principal.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	pkg, err := domain.NewPackage(uuid.NewString(), req.Principal, req.Name, req.SessionCount, req.ValidityDays, i.Clock.Now())
	if err != nil {
		return nil, err
	}

	err = i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		if err := tx.InsertPackage(pkg); err != nil {
			return fmt.Errorf("failed to insert package: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.Logger.Info("package created",
		slog.String("package_id", pkg.ID()),
		slog.String("coach_id", pkg.CoachID()),
		slog.Int64("session_count", pkg.SessionCount()),
	)
	return &Response{PackageID: pkg.ID()}, nil
}
