package repository

import (
	"context"

	"arc-staff-portal/internal/principal/domain"
)

// Repository defines persistence for the staff and IT-admin directories.
type Repository interface {
	GetStaff(ctx context.Context, uid string) (*domain.StaffRecord, error)
	ListStaff(ctx context.Context) ([]*domain.StaffRecord, error)
	CreateStaff(ctx context.Context, s *domain.StaffRecord) error
	DeleteStaff(ctx context.Context, uid string) error

	GetAdmin(ctx context.Context, id string) (*domain.AdminRecord, error)
	ListAdmins(ctx context.Context) ([]*domain.AdminRecord, error)
	CreateAdmin(ctx context.Context, a *domain.AdminRecord) error
}
