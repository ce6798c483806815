package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"arc-staff-portal/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	const q = `SELECT id, uid, expires_at, revoked_at, ip, created_at FROM sessions WHERE id = $1`
	var (
		s         domain.Session
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.UID, &s.ExpiresAt, &revokedAt, &s.IP, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	return &s, nil
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	const q = `INSERT INTO sessions (id, uid, expires_at, revoked_at, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	var revokedAt sql.NullTime
	if s.RevokedAt != nil {
		revokedAt = sql.NullTime{Time: *s.RevokedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q, s.ID, s.UID, s.ExpiresAt, revokedAt, s.IP, s.CreatedAt)
	return err
}

// Revoke marks the session revoked. Revoking an already revoked or missing session is a no-op.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	const q = `UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, id, time.Now().UTC())
	return err
}

// RevokeAllByUID revokes every unrevoked session for the given account.
func (r *PostgresRepository) RevokeAllByUID(ctx context.Context, uid string) error {
	const q = `UPDATE sessions SET revoked_at = $2 WHERE uid = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, uid, time.Now().UTC())
	return err
}

// DeleteExpired removes sessions whose expiry has passed. Returns rows removed.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM sessions WHERE expires_at < $1`
	res, err := r.db.ExecContext(ctx, q, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
