package members

import (
	"net/http"
	"time"

	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
)

type transition func(m *domain.Member, today time.Time) membership.Patch

// Renew restarts the member's period from today using the plan duration.
// POST /v1/members/{id}/renew?confirm=true
func (h *Handler) Renew(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "renew", func(m *domain.Member, today time.Time) membership.Patch {
		return membership.Renew(m, m.Plan, today)
	})
}

// Cancel ends the membership today and deactivates the member.
// POST /v1/members/{id}/cancel?confirm=true
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "cancel", membership.Cancel)
}

// Toggle flips the member's stored status.
// POST /v1/members/{id}/toggle?confirm=true
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "toggle", func(m *domain.Member, _ time.Time) membership.Patch {
		return membership.ToggleActive(m)
	})
}

// runTransition computes the patch for action, answers 428 with a preview
// until the request is confirmed, then persists it.
func (h *Handler) runTransition(w http.ResponseWriter, r *http.Request, action string, compute transition) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	today := h.today()
	patch := compute(m, today)
	next := membership.Apply(*m, patch)

	result, err := h.toResponse(&next, today)
	if err != nil {
		h.writeError(w, err, "failed to "+action+" member", "member_id", m.ID)
		return
	}

	if !httputil.Confirmed(r) {
		httputil.RequireConfirmation(w, action, TransitionPreview{Patch: patch, Result: result})
		return
	}

	if err := h.members.ApplyPatch(r.Context(), m.ID, patch); err != nil {
		h.writeError(w, err, "failed to "+action+" member", "member_id", m.ID)
		return
	}

	h.logger.Info("member "+action,
		"member_id", m.ID,
		"status", next.Status,
		"end_date", next.EndDate,
	)
	h.respondMember(w, r, m.ID, http.StatusOK)
}
