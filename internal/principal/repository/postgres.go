package repository

import (
	"context"
	"database/sql"
	"errors"

	"arc-staff-portal/internal/principal/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a directory repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetStaff returns the staff record for uid, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetStaff(ctx context.Context, uid string) (*domain.StaffRecord, error) {
	const q = `SELECT uid, email, first_name, last_name, role, created_by, created_at
		FROM administrative_staff WHERE uid = $1`
	var s domain.StaffRecord
	err := r.db.QueryRowContext(ctx, q, uid).Scan(&s.UID, &s.Email, &s.FirstName, &s.LastName, &s.Role, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListStaff returns all staff records ordered by creation time.
func (r *PostgresRepository) ListStaff(ctx context.Context) ([]*domain.StaffRecord, error) {
	const q = `SELECT uid, email, first_name, last_name, role, created_by, created_at
		FROM administrative_staff ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.StaffRecord
	for rows.Next() {
		var s domain.StaffRecord
		if err := rows.Scan(&s.UID, &s.Email, &s.FirstName, &s.LastName, &s.Role, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// CreateStaff persists the staff record. The record must have UID set.
func (r *PostgresRepository) CreateStaff(ctx context.Context, s *domain.StaffRecord) error {
	const q = `INSERT INTO administrative_staff (uid, email, first_name, last_name, role, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, q, s.UID, s.Email, s.FirstName, s.LastName, s.Role, s.CreatedBy, s.CreatedAt)
	return err
}

// DeleteStaff removes the staff record. Missing rows are a no-op.
func (r *PostgresRepository) DeleteStaff(ctx context.Context, uid string) error {
	const q = `DELETE FROM administrative_staff WHERE uid = $1`
	_, err := r.db.ExecContext(ctx, q, uid)
	return err
}

// GetAdmin returns the IT-admin record for the hashed identification number, or
// nil if not found. It returns an error only for database failures.
func (r *PostgresRepository) GetAdmin(ctx context.Context, id string) (*domain.AdminRecord, error) {
	const q = `SELECT id, email, first_name, last_name, created_at FROM it_admins WHERE id = $1`
	var a domain.AdminRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListAdmins returns all IT-admin records ordered by creation time.
func (r *PostgresRepository) ListAdmins(ctx context.Context) ([]*domain.AdminRecord, error) {
	const q = `SELECT id, email, first_name, last_name, created_at FROM it_admins ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AdminRecord
	for rows.Next() {
		var a domain.AdminRecord
		if err := rows.Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CreateAdmin persists the IT-admin record. The record must have ID set.
func (r *PostgresRepository) CreateAdmin(ctx context.Context, a *domain.AdminRecord) error {
	const q = `INSERT INTO it_admins (id, email, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q, a.ID, a.Email, a.FirstName, a.LastName, a.CreatedAt)
	return err
}
