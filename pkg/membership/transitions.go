package membership

import (
	"time"

	"github.com/tendant/gymdesk/pkg/domain"
)

// DefaultRenewalDays applies when a member has no plan to take a duration from.
const DefaultRenewalDays = 30

// Patch is the set of member fields a transition changes.
// Nil fields are left untouched.
type Patch struct {
	StartDate *string              `json:"start_date,omitempty"`
	EndDate   *string              `json:"end_date,omitempty"`
	Status    *domain.MemberStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Status == nil
}

// Renew restarts the membership period from today. Days left on the current
// period are discarded.
func Renew(m *domain.Member, plan *domain.Plan, today time.Time) Patch {
	today = Today(today)
	start := FormatDate(today)
	end := FormatDate(AddDays(today, renewalDays(plan)))
	status := domain.MemberStatusActive
	return Patch{StartDate: &start, EndDate: &end, Status: &status}
}

// Cancel ends the membership today and deactivates the member.
func Cancel(m *domain.Member, today time.Time) Patch {
	end := FormatDate(Today(today))
	status := domain.MemberStatusInactive
	return Patch{EndDate: &end, Status: &status}
}

// ToggleActive flips the stored status. Dates are untouched, so reactivating
// an expired member does not grant access until a renewal or a date edit.
func ToggleActive(m *domain.Member) Patch {
	status := domain.MemberStatusActive
	if m.Status == domain.MemberStatusActive {
		status = domain.MemberStatusInactive
	}
	return Patch{Status: &status}
}

// DeriveEndDate returns start plus the plan's duration in calendar days.
// A nil plan uses DefaultRenewalDays.
func DeriveEndDate(start time.Time, plan *domain.Plan) time.Time {
	return AddDays(Today(start), renewalDays(plan))
}

// Apply returns a copy of m with p applied.
func Apply(m domain.Member, p Patch) domain.Member {
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		m.EndDate = *p.EndDate
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	return m
}

func renewalDays(plan *domain.Plan) int {
	if plan == nil || plan.DurationDays < 1 {
		return DefaultRenewalDays
	}
	return plan.DurationDays
}
