package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for member start and end dates.
const DateLayout = "2006-01-02"

// MemberStatus is the stored activation flag of a member.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s MemberStatus) Valid() bool {
	return s == MemberStatusActive || s == MemberStatusInactive
}

// Member is a person holding a gym membership.
// StartDate and EndDate are calendar dates in DateLayout; they are kept as
// text so that a malformed stored value surfaces as an error instead of a
// zero time.
type Member struct {
	ID        uuid.UUID
	Name      string
	Phone     *string
	Email     *string
	PhotoURL  *string
	PlanID    *uuid.UUID
	StartDate string
	EndDate   string
	Status    MemberStatus
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Plan is resolved at read time and is nil when PlanID is unset or the
	// referenced plan no longer exists.
	Plan *Plan
}

// PlanName returns the name of the resolved plan, or "" when there is none.
func (m *Member) PlanName() string {
	if m.Plan == nil {
		return ""
	}
	return m.Plan.Name
}

// Validate checks the fields that must hold before a member is written.
func (m *Member) Validate() error {
	if m.Name == "" {
		return NewValidationError("name", "is required")
	}
	if !m.Status.Valid() {
		return NewValidationError("status", "must be active or inactive")
	}
	if _, err := time.Parse(DateLayout, m.StartDate); err != nil {
		return NewValidationError("start_date", "must be a date in YYYY-MM-DD format")
	}
	if _, err := time.Parse(DateLayout, m.EndDate); err != nil {
		return NewValidationError("end_date", "must be a date in YYYY-MM-DD format")
	}
	return nil
}
