// Package check decides checkpoint access for a scanned member id.
package check

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
)

// MemberLookup fetches a member with its plan.
type MemberLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
}

// Decision is a checkpoint outcome and the member it concerns, which is nil
// when the outcome is not_found.
type Decision struct {
	Member *domain.Member
	Result membership.AccessResult
}

// Resolve looks up rawID and decides access on today. Ids that do not parse
// resolve to not_found like unknown ids. A record whose dates cannot be read
// returns membership.ErrInvalidDate with the member set.
func Resolve(ctx context.Context, members MemberLookup, rawID string, today time.Time) (Decision, error) {
	var m *domain.Member
	if id, err := uuid.Parse(rawID); err == nil {
		m, err = members.GetByID(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrMemberNotFound) {
			return Decision{}, err
		}
	}

	result, err := membership.ResolveAccess(m, today)
	if err != nil {
		return Decision{Member: m}, err
	}
	return Decision{Member: m, Result: result}, nil
}

// Handler serves the checkpoint decision as JSON for kiosk clients.
type Handler struct {
	logger  *slog.Logger
	members MemberLookup
	now     func() time.Time
}

// NewHandler creates a new check handler. now defaults to time.Now.
func NewHandler(logger *slog.Logger, members MemberLookup, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{logger: logger, members: members, now: now}
}

// MemberSummary is the part of a member shown at the checkpoint.
type MemberSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PlanName string  `json:"plan_name,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// Response is the JSON checkpoint result.
type Response struct {
	membership.AccessResult
	Member *MemberSummary `json:"member,omitempty"`
}

// Check returns the checkpoint decision for a member id.
// GET /v1/check/{id}
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := Resolve(r.Context(), h.members, id, h.now())
	switch {
	case errors.Is(err, membership.ErrInvalidDate):
		h.logger.Warn("checkpoint record has an invalid date", "member_id", id, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "member record has an invalid date")
		return
	case err != nil:
		h.logger.Error("checkpoint lookup failed", "member_id", id, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load member")
		return
	}

	resp := Response{AccessResult: d.Result}
	if d.Member != nil {
		resp.Member = &MemberSummary{
			ID:       d.Member.ID.String(),
			Name:     d.Member.Name,
			PlanName: d.Member.PlanName(),
			PhotoURL: d.Member.PhotoURL,
		}
	}

	h.logger.Info("checkpoint", "member_id", id, "outcome", d.Result.Outcome, "reason", d.Result.Reason)
	httputil.JSON(w, http.StatusOK, resp)
}
