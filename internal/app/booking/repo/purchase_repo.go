package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/models/m_package"
	"github.com/light-bringer/coachbook-service/internal/models/m_package_purchase"
)

// PurchaseRepo maps packages and package purchases.
type PurchaseRepo struct {
	packages  *m_package.Model
	purchases *m_package_purchase.Model
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo() *PurchaseRepo {
	return &PurchaseRepo{
		packages:  m_package.NewModel(),
		purchases: m_package_purchase.NewModel(),
	}
}

// InsertPackageMut creates a mutation for inserting a package.
func (r *PurchaseRepo) InsertPackageMut(p *domain.Package) *spanner.Mutation {
	return r.packages.InsertMut(&m_package.Data{
		PackageID:    p.ID(),
		CoachID:      p.CoachID(),
		Name:         p.Name(),
		SessionCount: p.SessionCount(),
		ValidityDays: int64(p.ValidityDays()),
		CreatedAt:    p.CreatedAt(),
	})
}

// InsertPurchaseMut creates a mutation for inserting a purchase.
func (r *PurchaseRepo) InsertPurchaseMut(p *domain.PackagePurchase) *spanner.Mutation {
	return r.purchases.InsertMut(&m_package_purchase.Data{
		PurchaseID:   p.ID(),
		UserID:       p.UserID(),
		PackageID:    p.PackageID(),
		CoachID:      p.CoachID(),
		SessionCount: p.SessionCount(),
		SessionsUsed: p.SessionsUsed(),
		PurchasedAt:  p.PurchasedAt(),
		ExpiresAt:    p.ExpiresAt(),
		UpdatedAt:    p.UpdatedAt(),
	})
}

// UpdatePurchaseMut writes the balance of a purchase if it changed, or returns nil.
func (r *PurchaseRepo) UpdatePurchaseMut(p *domain.PackagePurchase) *spanner.Mutation {
	if !p.Changes().Dirty(domain.FieldSessionsUsed) {
		return nil
	}
	return r.purchases.UpdateSessionsMut(p.ID(), p.SessionsUsed(), p.UpdatedAt())
}

// GetPackage reads one package.
func (r *PurchaseRepo) GetPackage(ctx context.Context, rd reader, packageID string) (*domain.Package, error) {
	row, err := rd.ReadRow(ctx, m_package.TableName, spanner.Key{packageID}, m_package.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to read package: %w", err)
	}

	var data m_package.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse package: %w", err)
	}
	return domain.ReconstructPackage(data.PackageID, data.CoachID, data.Name, data.SessionCount, int(data.ValidityDays), data.CreatedAt), nil
}

// GetPurchase reads one purchase.
func (r *PurchaseRepo) GetPurchase(ctx context.Context, rd reader, purchaseID string) (*domain.PackagePurchase, error) {
	row, err := rd.ReadRow(ctx, m_package_purchase.TableName, spanner.Key{purchaseID}, m_package_purchase.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to read package purchase: %w", err)
	}

	var data m_package_purchase.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse package purchase: %w", err)
	}
	return domain.ReconstructPackagePurchase(
		data.PurchaseID,
		data.UserID,
		data.PackageID,
		data.CoachID,
		data.SessionCount,
		data.SessionsUsed,
		data.PurchasedAt,
		data.ExpiresAt,
		data.UpdatedAt,
	), nil
}
