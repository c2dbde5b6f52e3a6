package membership

import (
	"time"

	"github.com/tendant/gymdesk/pkg/domain"
)

// Outcome is the checkpoint decision.
type Outcome string

const (
	OutcomeNotFound  Outcome = "not_found"
	OutcomeDenied    Outcome = "denied"
	OutcomePermitted Outcome = "permitted"
)

// DenyReason explains a denied outcome.
type DenyReason string

const (
	ReasonInactive DenyReason = "inactive"
	ReasonExpired  DenyReason = "expired"
)

// AccessResult is the result of a checkpoint lookup.
type AccessResult struct {
	Outcome    Outcome    `json:"outcome"`
	Reason     DenyReason `json:"reason,omitempty"`
	ValidUntil string     `json:"valid_until,omitempty"`
}

// Allowed reports whether the member may enter.
func (r AccessResult) Allowed() bool {
	return r.Outcome == OutcomePermitted
}

// ResolveAccess decides the checkpoint outcome for m, which is nil when no
// record exists. An unparseable end date is returned as an error and the
// record must not be displayed.
func ResolveAccess(m *domain.Member, today time.Time) (AccessResult, error) {
	if m == nil {
		return AccessResult{Outcome: OutcomeNotFound}, nil
	}

	v, err := Evaluate(m, today)
	if err != nil {
		return AccessResult{}, err
	}

	switch v.State {
	case StateActiveValid:
		return AccessResult{Outcome: OutcomePermitted, ValidUntil: FormatDate(v.EndDate)}, nil
	case StateInactive:
		return AccessResult{Outcome: OutcomeDenied, Reason: ReasonInactive}, nil
	default:
		return AccessResult{Outcome: OutcomeDenied, Reason: ReasonExpired}, nil
	}
}
