package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"arc-staff-portal/internal/card/domain"
)

const pgUniqueViolation = "23505"

const cardColumns = `id, recipient_id, arc_card_number, security_code, department,
	allocation_date, status, months_remaining, issued_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a card repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the card for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM arc_cards WHERE id = $1", id)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListByRecipient returns the recipient's cards, newest first.
func (r *PostgresRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+cardColumns+" FROM arc_cards WHERE recipient_id = $1 ORDER BY issued_at DESC",
		recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create persists the card. Returns ErrDuplicateCardNumber when the card
// number is already registered.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Card) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO arc_cards (id, recipient_id, arc_card_number, security_code,
		    department, allocation_date, status, months_remaining, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.RecipientID, c.ArcCardNumber, c.SecurityCode,
		c.Department, c.AllocationDate, c.Status, c.MonthsRemaining, c.IssuedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateCardNumber
		}
		return err
	}
	return nil
}

// UpdateStatus changes the card's status and remaining months.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, monthsRemaining int32) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE arc_cards SET status = $2, months_remaining = $3 WHERE id = $1",
		id, status, monthsRemaining)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	if err := row.Scan(&c.ID, &c.RecipientID, &c.ArcCardNumber, &c.SecurityCode,
		&c.Department, &c.AllocationDate, &c.Status, &c.MonthsRemaining, &c.IssuedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
