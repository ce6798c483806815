package repository

import (
	"context"

	"arc-staff-portal/internal/idp/domain"
)

// Repository defines persistence for identity-provider accounts.
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	// SetAdminClaim updates the elevated claim on the account. Existing sessions keep
	// the claim set captured at issuance; callers must revoke them separately.
	SetAdminClaim(ctx context.Context, uid string, admin bool) error
	Delete(ctx context.Context, uid string) error
}
