package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/gymdesk/pkg/domain"
)

// StaffRepository handles staff account persistence.
type StaffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create creates a new staff account.
func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) error {
	query := `
		INSERT INTO staff (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Email, s.Name, s.PasswordHash, s.CreatedAt, s.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrStaffAlreadyExists
	}
	return err
}

// GetByID retrieves a staff account by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	query := `
		SELECT id, email, name, password_hash, failed_login_attempts, locked_until, created_at, updated_at
		FROM staff
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a staff account by email.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `
		SELECT id, email, name, password_hash, failed_login_attempts, locked_until, created_at, updated_at
		FROM staff
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

// Count returns the number of staff accounts.
func (r *StaffRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n)
	return n, err
}

// IncrementFailedLoginAttempts increments the failed login attempts counter.
func (r *StaffRepository) IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID, lockoutDuration time.Duration, maxAttempts int) error {
	query := `
		UPDATE staff
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN NOW() + make_interval(secs => $3)
		        ELSE locked_until
		    END,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, maxAttempts, lockoutDuration.Seconds())
	return err
}

// ResetFailedLoginAttempts resets the failed login attempts and clears lockout.
func (r *StaffRepository) ResetFailedLoginAttempts(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE staff
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *StaffRepository) getOne(ctx context.Context, query string, arg any) (*domain.Staff, error) {
	s := &domain.Staff{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.Email, &s.Name, &s.PasswordHash,
		&s.FailedLoginAttempts, &s.LockedUntil, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
