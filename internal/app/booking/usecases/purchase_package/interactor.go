package purchase_package

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request buys a package for the principal.
type Request struct {
	Principal domain.Principal
	PackageID string
}

// Response describes the new purchase.
type Response struct {
	PurchaseID   string
	SessionCount int64
	ExpiresAt    time.Time
}

// Interactor handles the purchase package use case.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new purchase package interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute snapshots the package's session count and validity into a new
// purchase. Later package edits do not change existing purchases.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	var purchase *domain.PackagePurchase

	err := i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		pkg, err := tx.GetPackage(ctx, req.PackageID)
		if err != nil {
			return err
		}
		purchase, err = domain.NewPackagePurchase(uuid.NewString(), req.Principal, pkg, i.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.InsertPurchase(purchase); err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.Logger.Info("package purchased",
		slog.String("purchase_id", purchase.ID()),
		slog.String("package_id", req.PackageID),
		slog.String("user_id", purchase.UserID()),
	)
	return &Response{
		PurchaseID:   purchase.ID(),
		SessionCount: purchase.SessionCount(),
		ExpiresAt:    purchase.ExpiresAt(),
	}, nil
}
