package repository

import (
	"context"

	"arc-staff-portal/internal/recipient/domain"
)

// Repository defines persistence for recipients.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Recipient, error)
	List(ctx context.Context, limit, offset int32) ([]*domain.Recipient, error)
	Create(ctx context.Context, r *domain.Recipient) error
	Update(ctx context.Context, r *domain.Recipient) error
	SetBanned(ctx context.Context, id string, banned bool, reason string) error
}
