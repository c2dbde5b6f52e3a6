package plans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/auth"
	"github.com/tendant/gymdesk/pkg/catalog"
	"github.com/tendant/gymdesk/pkg/domain"
)

// PlanStore is the plan persistence used by the handler.
type PlanStore interface {
	Create(ctx context.Context, plan *domain.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler handles membership plan and benefit catalog endpoints.
type Handler struct {
	logger        *slog.Logger
	plans         PlanStore
	catalog       *catalog.Catalog
	maxNameLength int
}

// NewHandler creates a new plans handler.
func NewHandler(logger *slog.Logger, plans PlanStore, benefits *catalog.Catalog, maxNameLength int) *Handler {
	if benefits == nil {
		benefits = catalog.Default()
	}
	if maxNameLength <= 0 {
		maxNameLength = 200
	}
	return &Handler{
		logger:        logger,
		plans:         plans,
		catalog:       benefits,
		maxNameLength: maxNameLength,
	}
}

// RegisterRoutes registers the staff plan routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/v1/benefits", h.Benefits)
	r.Get("/v1/plans", h.List)
	r.Post("/v1/plans", h.Create)
	r.Get("/v1/plans/{id}", h.Get)
	r.Put("/v1/plans/{id}", h.Update)
	r.Delete("/v1/plans/{id}", h.Delete)
	r.Post("/v1/plans/{id}/toggle", h.Toggle)
}

// PlanRequest is the body of create and update requests.
type PlanRequest struct {
	Name         string   `json:"name"`
	DurationDays int      `json:"duration_days"`
	Price        *float64 `json:"price"`
	Benefits     []string `json:"benefits"`
	IsActive     *bool    `json:"is_active"`
}

// PlanResponse is a plan with its benefit labels resolved.
type PlanResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DurationDays  int       `json:"duration_days"`
	Price         *float64  `json:"price,omitempty"`
	Benefits      []string  `json:"benefits"`
	BenefitLabels []string  `json:"benefit_labels"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (h *Handler) toResponse(p *domain.Plan) PlanResponse {
	benefits := p.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	return PlanResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		DurationDays:  p.DurationDays,
		Price:         p.Price,
		Benefits:      benefits,
		BenefitLabels: h.catalog.Labels(benefits),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Benefits returns the benefit catalog grouped by category.
// GET /v1/benefits
func (h *Handler) Benefits(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]any{"categories": h.catalog.Categories()})
}

// List returns plans ordered by duration.
// GET /v1/plans?active=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	list, err := h.plans.List(r.Context(), activeOnly)
	if err != nil {
		h.writeError(w, err, "failed to list membership plans")
		return
	}

	out := make([]PlanResponse, 0, len(list))
	for _, p := range list {
		out = append(out, h.toResponse(p))
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"plans": out})
}

// Get returns one plan.
// GET /v1/plans/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	httputil.JSON(w, http.StatusOK, h.toResponse(p))
}

// Create creates a plan. New plans are active unless is_active is false.
// POST /v1/plans
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	p := &domain.Plan{IsActive: true}
	if err := h.applyRequest(p, req); err != nil {
		h.writeError(w, err, "failed to create membership plan")
		return
	}

	now := time.Now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := h.plans.Create(r.Context(), p); err != nil {
		h.writeError(w, err, "failed to create membership plan")
		return
	}

	h.logger.Info("membership plan created", "plan_id", p.ID, "duration_days", p.DurationDays)
	httputil.JSON(w, http.StatusCreated, h.toResponse(p))
}

// Update replaces a plan's fields. is_active keeps its value when omitted.
// PUT /v1/plans/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	var req PlanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	if err := h.applyRequest(p, req); err != nil {
		h.writeError(w, err, "failed to update membership plan", "plan_id", p.ID)
		return
	}

	if err := h.plans.Update(r.Context(), p); err != nil {
		h.writeError(w, err, "failed to update membership plan", "plan_id", p.ID)
		return
	}

	h.logger.Info("membership plan updated", "plan_id", p.ID)
	h.respondPlan(w, r, p.ID)
}

// Delete removes a plan after confirmation. Members keep their dates and lose
// the plan reference.
// DELETE /v1/plans/{id}?confirm=true
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	if !httputil.Confirmed(r) {
		httputil.RequireConfirmation(w, "delete", h.toResponse(p))
		return
	}

	if err := h.plans.Delete(r.Context(), p.ID); err != nil {
		h.writeError(w, err, "failed to delete membership plan", "plan_id", p.ID)
		return
	}

	h.logger.Info("membership plan deleted", "plan_id", p.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Toggle flips whether the plan can be assigned to new members.
// Deactivating needs confirmation; activating does not.
// POST /v1/plans/{id}/toggle[?confirm=true]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	next := !p.IsActive
	if !next && !httputil.Confirmed(r) {
		preview := *p
		preview.IsActive = false
		httputil.RequireConfirmation(w, "deactivate", h.toResponse(&preview))
		return
	}

	if err := h.plans.SetActive(r.Context(), p.ID, next); err != nil {
		h.writeError(w, err, "failed to update membership plan", "plan_id", p.ID)
		return
	}

	h.logger.Info("membership plan toggled", "plan_id", p.ID, "is_active", next)
	h.respondPlan(w, r, p.ID)
}

// applyRequest validates req and copies it onto p.
func (h *Handler) applyRequest(p *domain.Plan, req PlanRequest) error {
	p.Name = auth.SanitizeText(req.Name)
	if p.Name != "" {
		if err := auth.ValidateStringLength("name", p.Name, 1, h.maxNameLength); err != nil {
			return err
		}
	}
	p.DurationDays = req.DurationDays
	p.Price = req.Price

	benefits, err := h.normalizeBenefits(req.Benefits)
	if err != nil {
		return err
	}
	p.Benefits = benefits

	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p.Validate()
}

// normalizeBenefits keeps the first occurrence of each id in the given order
// and rejects ids the catalog does not know.
func (h *Handler) normalizeBenefits(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, ok := h.catalog.Lookup(id); !ok {
			return nil, domain.NewValidationError("benefits", fmt.Sprintf("contains unknown benefit %q", id))
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func (h *Handler) loadPlan(w http.ResponseWriter, r *http.Request) (*domain.Plan, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid plan id")
		return nil, false
	}
	p, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to load membership plan", "plan_id", id)
		return nil, false
	}
	return p, true
}

func (h *Handler) respondPlan(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to load membership plan", "plan_id", id)
		return
	}
	httputil.JSON(w, http.StatusOK, h.toResponse(p))
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string, attrs ...any) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrPlanNotFound):
		httputil.Error(w, http.StatusNotFound, "membership plan not found")
	default:
		h.logger.Error(fallback, append(attrs, "error", err)...)
		httputil.Error(w, http.StatusInternalServerError, fallback)
	}
}
