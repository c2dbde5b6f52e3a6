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

const planColumns = `id, name, duration_days, price, benefits, is_active, created_at, updated_at`

// PlansRepository handles membership plan persistence.
type PlansRepository struct {
	db *sql.DB
}

// NewPlansRepository creates a new plans repository.
func NewPlansRepository(db *sql.DB) *PlansRepository {
	return &PlansRepository{db: db}
}

// Create creates a new plan.
func (r *PlansRepository) Create(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO membership_types (id, name, duration_days, price, benefits, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Name, plan.DurationDays, plan.Price, pq.Array(nonNil(plan.Benefits)),
		plan.IsActive, plan.CreatedAt, plan.UpdatedAt,
	)
	return err
}

// GetByID retrieves a plan by ID.
func (r *PlansRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_types WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// List returns plans ordered by duration. When activeOnly is set, plans that
// cannot be assigned to new members are left out.
func (r *PlansRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_types`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY duration_days, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []*domain.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Update updates a plan.
func (r *PlansRepository) Update(ctx context.Context, plan *domain.Plan) error {
	query := `
		UPDATE membership_types
		SET name = $2, duration_days = $3, price = $4, benefits = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Name, plan.DurationDays, plan.Price, pq.Array(nonNil(plan.Benefits)),
		plan.IsActive, time.Now(),
	)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrPlanNotFound)
}

// SetActive changes whether the plan can be assigned to new members.
func (r *PlansRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE membership_types SET is_active = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrPlanNotFound)
}

// Delete permanently deletes a plan. Members that referenced it keep their
// dates and status; their plan reference is cleared by the foreign key.
func (r *PlansRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM membership_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrPlanNotFound)
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	plan := &domain.Plan{}
	err := row.Scan(
		&plan.ID, &plan.Name, &plan.DurationDays, &plan.Price, pq.Array(&plan.Benefits),
		&plan.IsActive, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
