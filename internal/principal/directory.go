// Package principal exposes the portal's principal directory: the authoritative
// record of who is provisioned as administrative staff and who as IT admin.
// Route gating trusts session claims for speed; privileged mutations consult the
// directory instead, so a revoked privilege wins over a stale session claim.
package principal

import (
	"context"

	"arc-staff-portal/internal/principal/domain"
	"arc-staff-portal/internal/principal/repository"
)

// Directory answers membership questions over the staff and IT-admin collections.
type Directory struct {
	repo repository.Repository
}

// NewDirectory returns a Directory backed by the given repository.
func NewDirectory(repo repository.Repository) *Directory {
	return &Directory{repo: repo}
}

// IsElevated reports whether principalID belongs to a provisioned IT admin.
// An absent record is false: nobody is admin implicitly.
func (d *Directory) IsElevated(ctx context.Context, principalID string) (bool, error) {
	a, err := d.repo.GetAdmin(ctx, principalID)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

// FindStaff returns the staff record for uid, or nil if the uid is not a
// provisioned staff member.
func (d *Directory) FindStaff(ctx context.Context, uid string) (*domain.StaffRecord, error) {
	return d.repo.GetStaff(ctx, uid)
}

// Find resolves a principal id against both collections and returns the tagged
// principal, or nil when the id is provisioned in neither. IT admins win when an
// id somehow appears in both: elevation is the stricter classification to report.
func (d *Directory) Find(ctx context.Context, principalID string) (*domain.Principal, error) {
	a, err := d.repo.GetAdmin(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if a != nil {
		return domain.AdminPrincipal(a), nil
	}
	s, err := d.repo.GetStaff(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return domain.StaffPrincipal(s), nil
	}
	return nil, nil
}
