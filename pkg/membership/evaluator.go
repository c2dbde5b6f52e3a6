package membership

import (
	"time"

	"github.com/tendant/gymdesk/pkg/domain"
)

// DefaultExpiringWindow is the look-ahead, in days, used for expiring-soon checks.
const DefaultExpiringWindow = 7

// State is the access state derived from the stored status and the end date.
type State string

const (
	// StateActiveValid is the only state in which access is allowed.
	StateActiveValid   State = "active_valid"
	StateActiveExpired State = "active_expired"
	StateInactive      State = "inactive"
)

// Validity is the derived view of a member on a given day.
type Validity struct {
	Today   time.Time
	EndDate time.Time
	Status  domain.MemberStatus

	IsExpired bool
	IsActive  bool
	Allowed   bool
	State     State
}

// Evaluate derives the validity of m on today.
// A member whose end date is today is not expired.
func Evaluate(m *domain.Member, today time.Time) (Validity, error) {
	end, err := ParseDate(m.EndDate)
	if err != nil {
		return Validity{}, err
	}
	today = Today(today)

	v := Validity{
		Today:     today,
		EndDate:   end,
		Status:    m.Status,
		IsExpired: end.Before(today),
		IsActive:  m.Status == domain.MemberStatusActive,
	}
	v.Allowed = v.IsActive && !v.IsExpired

	switch {
	case !v.IsActive:
		v.State = StateInactive
	case v.IsExpired:
		v.State = StateActiveExpired
	default:
		v.State = StateActiveValid
	}
	return v, nil
}

// IsExpiringSoon reports whether an active member's end date falls within
// [today, today+windowDays].
func (v Validity) IsExpiringSoon(windowDays int) bool {
	if !v.IsActive {
		return false
	}
	limit := AddDays(v.Today, windowDays)
	return !v.EndDate.Before(v.Today) && !v.EndDate.After(limit)
}

// DaysLeft returns the days remaining until the end date, or 0 once expired.
func (v Validity) DaysLeft() int {
	if v.IsExpired {
		return 0
	}
	return DaysBetween(v.Today, v.EndDate)
}
