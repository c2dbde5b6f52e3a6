package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
)

// DefaultPageSize is the number of members returned per list page.
const DefaultPageSize = 20

// StatusFilter selects members by their derived access state.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusExpired  StatusFilter = "expired"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatusFilter parses a list filter value. An empty value means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusExpired, StatusInactive:
		return f, nil
	default:
		return "", domain.NewValidationError("status", "must be one of all, active, expired, inactive")
	}
}

// MemberFilter describes a member list query.
type MemberFilter struct {
	// Query matches a case-insensitive substring of the member name.
	Query    string
	Status   StatusFilter
	Page     int
	PageSize int
}

// MemberPage is one page of a member list.
type MemberPage struct {
	Members  []*domain.Member
	Total    int
	Page     int
	PageSize int
}

// TotalPages returns the number of pages for the filter.
func (p *MemberPage) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

const memberColumns = `
	m.id, m.name, m.phone, m.email, m.photo_url, m.membership_type_id,
	to_char(m.start_date, 'YYYY-MM-DD'), to_char(m.end_date, 'YYYY-MM-DD'),
	m.status, m.notes, m.created_at, m.updated_at,
	t.id, t.name, t.duration_days, t.price, t.benefits, t.is_active, t.created_at, t.updated_at`

const memberFrom = `
	FROM members m
	LEFT JOIN membership_types t ON t.id = m.membership_type_id`

// MembersRepository handles member persistence.
type MembersRepository struct {
	db *sql.DB
}

// NewMembersRepository creates a new members repository.
func NewMembersRepository(db *sql.DB) *MembersRepository {
	return &MembersRepository{db: db}
}

// Create creates a new member.
func (r *MembersRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `
		INSERT INTO members (id, name, phone, email, photo_url, membership_type_id,
		                     start_date, end_date, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::date, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.Phone, m.Email, m.PhotoURL, nullUUID(m.PlanID),
		m.StartDate, m.EndDate, string(m.Status), m.Notes, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// GetByID retrieves a member by ID together with its plan.
func (r *MembersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + memberFrom + ` WHERE m.id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the editable fields of a member.
func (r *MembersRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `
		UPDATE members
		SET name = $2, phone = $3, email = $4, photo_url = $5, membership_type_id = $6,
		    start_date = $7::date, end_date = $8::date, status = $9, notes = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.Phone, m.Email, m.PhotoURL, nullUUID(m.PlanID),
		m.StartDate, m.EndDate, string(m.Status), m.Notes, time.Now(),
	)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrMemberNotFound)
}

// ApplyPatch persists a transition in a single statement. Nil patch fields
// keep their stored value.
func (r *MembersRepository) ApplyPatch(ctx context.Context, id uuid.UUID, p membership.Patch) error {
	if p.IsEmpty() {
		return nil
	}
	var status *string
	if p.Status != nil {
		s := string(*p.Status)
		status = &s
	}
	query := `
		UPDATE members
		SET start_date = COALESCE($2::date, start_date),
		    end_date = COALESCE($3::date, end_date),
		    status = COALESCE($4, status),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, p.StartDate, p.EndDate, status)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrMemberNotFound)
}

// SetPhotoURL sets or clears the member's photo reference.
func (r *MembersRepository) SetPhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error {
	query := `UPDATE members SET photo_url = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, photoURL)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrMemberNotFound)
}

// Delete permanently deletes a member.
func (r *MembersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result, domain.ErrMemberNotFound)
}

// List returns one page of members matching filter, ordered by name.
// today decides which active members count as expired.
func (r *MembersRepository) List(ctx context.Context, filter MemberFilter, today time.Time) (*MemberPage, error) {
	filter = normalizeFilter(filter)
	where, args := buildMemberWhere(filter, membership.FormatDate(today))

	var total int
	countQuery := `SELECT COUNT(*) FROM members m` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := `SELECT ` + memberColumns + memberFrom + where +
		fmt.Sprintf(` ORDER BY m.name, m.id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	members, err := r.queryMembers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &MemberPage{
		Members:  members,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListExpiring returns active members whose end date falls within
// [today, today+windowDays], soonest first.
func (r *MembersRepository) ListExpiring(ctx context.Context, today time.Time, windowDays int) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + memberFrom + `
		WHERE m.status = 'active' AND m.end_date >= $1::date AND m.end_date <= $2::date
		ORDER BY m.end_date, m.name`
	from := membership.FormatDate(today)
	to := membership.FormatDate(membership.AddDays(membership.Today(today), windowDays))
	return r.queryMembers(ctx, query, from, to)
}

func (r *MembersRepository) queryMembers(ctx context.Context, query string, args ...any) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func normalizeFilter(f MemberFilter) MemberFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.Status == "" {
		f.Status = StatusAll
	}
	f.Query = strings.TrimSpace(f.Query)
	return f
}

// buildMemberWhere returns the WHERE clause and its positional arguments.
func buildMemberWhere(f MemberFilter, today string) (string, []any) {
	var conds []string
	var args []any

	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		conds = append(conds, fmt.Sprintf("m.name ILIKE $%d", len(args)))
	}

	switch f.Status {
	case StatusActive:
		args = append(args, today)
		conds = append(conds, fmt.Sprintf("m.status = 'active' AND m.end_date >= $%d::date", len(args)))
	case StatusExpired:
		args = append(args, today)
		conds = append(conds, fmt.Sprintf("m.status = 'active' AND m.end_date < $%d::date", len(args)))
	case StatusInactive:
		conds = append(conds, "m.status = 'inactive'")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	var (
		status       string
		planRef      uuid.NullUUID
		planID       uuid.NullUUID
		planName     sql.NullString
		planDuration sql.NullInt64
		planPrice    *float64
		planBenefits []string
		planActive   sql.NullBool
		planCreated  sql.NullTime
		planUpdated  sql.NullTime
	)
	err := row.Scan(
		&m.ID, &m.Name, &m.Phone, &m.Email, &m.PhotoURL, &planRef,
		&m.StartDate, &m.EndDate, &status, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
		&planID, &planName, &planDuration, &planPrice, pq.Array(&planBenefits),
		&planActive, &planCreated, &planUpdated,
	)
	if err != nil {
		return nil, err
	}
	m.Status = domain.MemberStatus(status)

	if planRef.Valid {
		id := planRef.UUID
		m.PlanID = &id
	}
	if planID.Valid {
		m.Plan = &domain.Plan{
			ID:           planID.UUID,
			Name:         planName.String,
			DurationDays: int(planDuration.Int64),
			Price:        planPrice,
			Benefits:     planBenefits,
			IsActive:     planActive.Bool,
			CreatedAt:    planCreated.Time,
			UpdatedAt:    planUpdated.Time,
		}
	}
	return m, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
