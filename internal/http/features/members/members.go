package members

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/auth"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
	"github.com/tendant/gymdesk/pkg/repository"
)

// List returns one page of members.
// GET /v1/members?q=&status=all|active|expired|inactive&page=1
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status, err := repository.ParseStatusFilter(query.Get("status"))
	if err != nil {
		h.writeError(w, err, "failed to list members")
		return
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			httputil.Error(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
	}

	today := h.today()
	result, err := h.members.List(r.Context(), repository.MemberFilter{
		Query:    strings.TrimSpace(query.Get("q")),
		Status:   status,
		Page:     page,
		PageSize: h.cfg.PageSize,
	}, today)
	if err != nil {
		h.writeError(w, err, "failed to list members")
		return
	}

	httputil.JSON(w, http.StatusOK, MemberListResponse{
		Members:    h.toResponses(result.Members, today),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages(),
	})
}

// Expiring lists active members whose end date falls within the window.
// GET /v1/members/expiring?days=7
func (h *Handler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := h.cfg.ExpiringWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 366 {
			httputil.Error(w, http.StatusBadRequest, "days must be an integer between 0 and 366")
			return
		}
		days = n
	}

	today := h.today()
	list, err := h.members.ListExpiring(r.Context(), today, days)
	if err != nil {
		h.writeError(w, err, "failed to list expiring members")
		return
	}

	out := make([]MemberResponse, 0, len(list))
	for _, m := range list {
		v, err := membership.Evaluate(m, today)
		if err != nil || !v.IsExpiringSoon(days) {
			continue
		}
		if resp, err := h.toResponse(m, today); err == nil {
			out = append(out, resp)
		}
	}

	httputil.JSON(w, http.StatusOK, ExpiringResponse{Days: days, Members: out})
}

// Get returns one member with its derived validity.
// GET /v1/members/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	resp, err := h.toResponse(m, h.today())
	if err != nil {
		h.writeError(w, err, "failed to load member", "member_id", m.ID)
		return
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Create creates a member. Start date defaults to today, end date to the
// start date plus the plan duration, status to active.
// POST /v1/members
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	m, err := h.buildMember(r.Context(), req, nil)
	if err != nil {
		h.writeError(w, err, "failed to create member")
		return
	}

	now := time.Now()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := h.members.Create(r.Context(), m); err != nil {
		h.writeError(w, err, "failed to create member")
		return
	}

	h.logger.Info("member created", "member_id", m.ID, "end_date", m.EndDate)
	h.respondMember(w, r, m.ID, http.StatusCreated)
}

// Update replaces the editable fields of a member. Omitted dates and plan
// keep their stored values; an empty plan_id clears the plan. Status only
// changes through the confirmed toggle and cancel actions.
// PUT /v1/members/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	var req MemberRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	m, err := h.buildMember(r.Context(), req, current)
	if err != nil {
		h.writeError(w, err, "failed to update member", "member_id", current.ID)
		return
	}

	if err := h.members.Update(r.Context(), m); err != nil {
		h.writeError(w, err, "failed to update member", "member_id", current.ID)
		return
	}

	h.logger.Info("member updated", "member_id", m.ID)
	h.respondMember(w, r, m.ID, http.StatusOK)
}

// Delete permanently removes a member after confirmation.
// DELETE /v1/members/{id}?confirm=true
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	if !httputil.Confirmed(r) {
		preview, err := h.toResponse(m, h.today())
		if err != nil {
			// The record is still deletable; show what is stored.
			httputil.RequireConfirmation(w, "delete", map[string]string{"id": m.ID.String(), "name": m.Name})
			return
		}
		httputil.RequireConfirmation(w, "delete", preview)
		return
	}

	if err := h.members.Delete(r.Context(), m.ID); err != nil {
		h.writeError(w, err, "failed to delete member", "member_id", m.ID)
		return
	}
	if h.photos != nil {
		if err := h.photos.Delete(r.Context(), m.ID); err != nil {
			h.logger.Warn("failed to delete member photo", "member_id", m.ID, "error", err)
		}
	}

	h.logger.Info("member deleted", "member_id", m.ID)
	w.WriteHeader(http.StatusNoContent)
}

// buildMember validates req and returns the member to write. current is nil
// on create.
func (h *Handler) buildMember(ctx context.Context, req MemberRequest, current *domain.Member) (*domain.Member, error) {
	m := &domain.Member{}
	if current != nil {
		*m = *current
	}

	m.Name = auth.SanitizeText(req.Name)
	if m.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if err := auth.ValidateStringLength("name", m.Name, 1, h.cfg.MaxNameLength); err != nil {
		return nil, err
	}

	m.Notes = auth.SanitizeOptional(req.Notes)
	if m.Notes != nil {
		if err := auth.ValidateStringLength("notes", *m.Notes, 0, h.cfg.MaxNotesLength); err != nil {
			return nil, err
		}
	}

	m.Phone = trimmedOptional(req.Phone)
	if m.Phone != nil {
		if err := auth.ValidatePhone(*m.Phone); err != nil {
			return nil, err
		}
	}

	m.Email = trimmedOptional(req.Email)
	if m.Email != nil {
		if err := auth.ValidateEmail(*m.Email); err != nil {
			return nil, err
		}
		normalized := auth.NormalizeEmail(*m.Email)
		m.Email = &normalized
	}

	plan := m.Plan
	if current == nil || req.PlanID != nil {
		var currentPlan *uuid.UUID
		if current != nil {
			currentPlan = current.PlanID
		}
		resolved, err := h.resolvePlan(ctx, req.PlanID, currentPlan)
		if err != nil {
			return nil, err
		}
		plan = resolved
		m.PlanID = nil
		m.Plan = plan
		if plan != nil {
			m.PlanID = &plan.ID
		}
	}

	today := h.today()
	start := today
	switch {
	case req.StartDate != "":
		parsed, err := membership.ParseDate(req.StartDate)
		if err != nil {
			return nil, domain.NewValidationError("start_date", "must be a date in YYYY-MM-DD format")
		}
		start = parsed
		m.StartDate = membership.FormatDate(start)
	case current == nil:
		m.StartDate = membership.FormatDate(start)
	}

	switch {
	case req.EndDate != "":
		end, err := membership.ParseDate(req.EndDate)
		if err != nil {
			return nil, domain.NewValidationError("end_date", "must be a date in YYYY-MM-DD format")
		}
		m.EndDate = membership.FormatDate(end)
	case current == nil:
		m.EndDate = membership.FormatDate(membership.DeriveEndDate(start, plan))
	}

	status := domain.MemberStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	switch {
	case current == nil && status != "":
		m.Status = status
	case current == nil:
		m.Status = domain.MemberStatusActive
	case status != "" && status != current.Status:
		return nil, domain.NewValidationError("status", "cannot be changed by an edit; use /toggle or /cancel")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// resolvePlan validates a plan reference. Only active plans may be newly
// assigned; a member may keep an inactive plan it already has.
func (h *Handler) resolvePlan(ctx context.Context, raw *string, current *uuid.UUID) (*domain.Plan, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.NewValidationError("plan_id", "is not a valid id")
	}
	plan, err := h.plans.GetByID(ctx, id)
	if errors.Is(err, domain.ErrPlanNotFound) {
		return nil, domain.NewValidationError("plan_id", "does not exist")
	}
	if err != nil {
		return nil, err
	}
	if !plan.IsActive && (current == nil || *current != plan.ID) {
		return nil, domain.NewValidationError("plan_id", "is not active")
	}
	return plan, nil
}

func trimmedOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
