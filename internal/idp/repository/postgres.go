package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"arc-staff-portal/internal/idp/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `uid, email, password_hash, display_name, admin, disabled, created_at, updated_at`

// GetByUID returns the account for uid, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUID(ctx context.Context, uid string) (*domain.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE uid = $1`, uid)
}

// GetByEmail returns the account with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) get(ctx context.Context, query, arg string) (*domain.Account, error) {
	var (
		a            domain.Account
		passwordHash sql.NullString
		displayName  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.UID, &a.Email, &passwordHash, &displayName, &a.Admin, &a.Disabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.PasswordHash = passwordHash.String
	a.DisplayName = displayName.String
	return &a, nil
}

// Create persists the account. The account must have UID set; it is not assigned here.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	const q = `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	passwordHash := sql.NullString{String: a.PasswordHash, Valid: a.PasswordHash != ""}
	displayName := sql.NullString{String: a.DisplayName, Valid: a.DisplayName != ""}
	_, err := r.db.ExecContext(ctx, q, a.UID, a.Email, passwordHash, displayName, a.Admin, a.Disabled, a.CreatedAt, a.UpdatedAt)
	return err
}

// SetAdminClaim updates the elevated claim on the account record.
func (r *PostgresRepository) SetAdminClaim(ctx context.Context, uid string, admin bool) error {
	const q = `UPDATE accounts SET admin = $2, updated_at = $3 WHERE uid = $1`
	_, err := r.db.ExecContext(ctx, q, uid, admin, time.Now().UTC())
	return err
}

// Delete removes the account. Sessions and staff records cascade in the schema.
func (r *PostgresRepository) Delete(ctx context.Context, uid string) error {
	const q = `DELETE FROM accounts WHERE uid = $1`
	_, err := r.db.ExecContext(ctx, q, uid)
	return err
}
