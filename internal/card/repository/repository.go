package repository

import (
	"context"
	"errors"

	"arc-staff-portal/internal/card/domain"
)

// ErrDuplicateCardNumber is returned when creating a card whose number is
// already registered.
var ErrDuplicateCardNumber = errors.New("arc card number already registered")

// Repository defines persistence for ARC cards.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Card, error)
	Create(ctx context.Context, c *domain.Card) error
	UpdateStatus(ctx context.Context, id string, status domain.Status, monthsRemaining int32) error
}
