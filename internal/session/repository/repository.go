package repository

import (
	"context"

	"arc-staff-portal/internal/session/domain"
)

// Repository defines persistence for sessions.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Revoke(ctx context.Context, id string) error
	// RevokeAllByUID revokes every session of the given account (forced logout).
	RevokeAllByUID(ctx context.Context, uid string) error
	// DeleteExpired removes sessions that expired before the cutoff; returns rows removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
