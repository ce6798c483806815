package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"arc-staff-portal/internal/recipient/domain"
)

// Aliases live in a text[] column; the queries convert to and from a
// newline-joined string so plain database/sql scanning works.
const recipientColumns = `id, first_name, second_name, gender_identity,
	array_to_string(aliases, E'\n'), date_of_birth, address, postal_code,
	banned, ban_reason, notes, created_by, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a recipient repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the recipient for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+recipientColumns+" FROM recipients WHERE id = $1", id)
	rec, err := scanRecipient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// List returns recipients ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int32) ([]*domain.Recipient, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recipientColumns+" FROM recipients ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Create persists the recipient. The recipient must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, rec *domain.Recipient) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipients (id, first_name, second_name, gender_identity, aliases,
		    date_of_birth, address, postal_code, banned, ban_reason, notes,
		    created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, string_to_array(NULLIF($5, ''), E'\n'),
		    $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID, rec.FirstName, rec.SecondName, rec.GenderIdentity, joinAliases(rec.Aliases),
		rec.DateOfBirth, rec.Address, rec.PostalCode, rec.Banned, rec.BanReason, rec.Notes,
		rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt)
	return err
}

// Update rewrites the recipient's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, rec *domain.Recipient) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recipients SET first_name = $2, second_name = $3, gender_identity = $4,
		    aliases = string_to_array(NULLIF($5, ''), E'\n'), date_of_birth = $6,
		    address = $7, postal_code = $8, notes = $9, updated_at = $10
		 WHERE id = $1`,
		rec.ID, rec.FirstName, rec.SecondName, rec.GenderIdentity, joinAliases(rec.Aliases),
		rec.DateOfBirth, rec.Address, rec.PostalCode, rec.Notes, rec.UpdatedAt)
	return err
}

// SetBanned flips the ban flag. Unbanning clears the reason.
func (r *PostgresRepository) SetBanned(ctx context.Context, id string, banned bool, reason string) error {
	if !banned {
		reason = ""
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE recipients SET banned = $2, ban_reason = $3, updated_at = now() WHERE id = $1",
		id, banned, reason)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipient(row rowScanner) (*domain.Recipient, error) {
	var rec domain.Recipient
	var aliases string
	if err := row.Scan(&rec.ID, &rec.FirstName, &rec.SecondName, &rec.GenderIdentity,
		&aliases, &rec.DateOfBirth, &rec.Address, &rec.PostalCode,
		&rec.Banned, &rec.BanReason, &rec.Notes, &rec.CreatedBy,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Aliases = splitAliases(aliases)
	return &rec, nil
}

func joinAliases(aliases []string) string {
	var kept []string
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			kept = append(kept, a)
		}
	}
	return strings.Join(kept, "\n")
}

func splitAliases(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "\n")
}
