package members

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
	"github.com/tendant/gymdesk/pkg/repository"
	"github.com/tendant/gymdesk/pkg/storage"
)

// MemberStore is the member persistence used by the handler.
type MemberStore interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	Update(ctx context.Context, m *domain.Member) error
	ApplyPatch(ctx context.Context, id uuid.UUID, p membership.Patch) error
	SetPhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repository.MemberFilter, today time.Time) (*repository.MemberPage, error)
	ListExpiring(ctx context.Context, today time.Time, windowDays int) ([]*domain.Member, error)
}

// PlanLookup resolves plan references.
type PlanLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
}

// PhotoStore holds member photos.
type PhotoStore interface {
	Put(ctx context.Context, memberID uuid.UUID, data []byte) (string, error)
	Get(ctx context.Context, memberID uuid.UUID) (*storage.Photo, error)
	Delete(ctx context.Context, memberID uuid.UUID) error
	MaxBytes() int
}

// Config holds member handler settings.
type Config struct {
	// BaseURL is the public origin used in QR payloads and photo URLs.
	BaseURL            string
	PageSize           int
	ExpiringWindowDays int
	MaxNameLength      int
	MaxNotesLength     int
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Handler handles member endpoints.
type Handler struct {
	logger  *slog.Logger
	members MemberStore
	plans   PlanLookup
	photos  PhotoStore
	cfg     Config
	now     func() time.Time
}

// NewHandler creates a new members handler. photos may be nil when photo
// storage is not configured.
func NewHandler(logger *slog.Logger, members MemberStore, plans PlanLookup, photos PhotoStore, cfg Config) *Handler {
	if cfg.PageSize <= 0 {
		cfg.PageSize = repository.DefaultPageSize
	}
	if cfg.ExpiringWindowDays < 0 {
		cfg.ExpiringWindowDays = membership.DefaultExpiringWindow
	}
	if cfg.MaxNameLength <= 0 {
		cfg.MaxNameLength = 200
	}
	if cfg.MaxNotesLength <= 0 {
		cfg.MaxNotesLength = 2000
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		logger:  logger,
		members: members,
		plans:   plans,
		photos:  photos,
		cfg:     cfg,
		now:     now,
	}
}

func (h *Handler) today() time.Time {
	return membership.Today(h.now())
}

// memberID parses the {id} URL parameter, writing a 400 when malformed.
func memberID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid member id")
		return uuid.Nil, false
	}
	return id, true
}

// loadMember fetches the member named by the URL, writing the error response
// when it cannot.
func (h *Handler) loadMember(w http.ResponseWriter, r *http.Request) (*domain.Member, bool) {
	id, ok := memberID(w, r)
	if !ok {
		return nil, false
	}
	m, err := h.members.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to load member", "member_id", id)
		return nil, false
	}
	return m, true
}

// writeError maps domain errors to responses; anything unexpected is logged
// and reported with fallback.
func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string, attrs ...any) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrMemberNotFound):
		httputil.Error(w, http.StatusNotFound, "member not found")
	case errors.Is(err, domain.ErrPhotoNotFound):
		httputil.Error(w, http.StatusNotFound, "photo not found")
	case errors.Is(err, membership.ErrInvalidDate):
		h.logger.Warn("member record has an invalid date", append(attrs, "error", err)...)
		httputil.Error(w, http.StatusInternalServerError, "member record has an invalid date")
	default:
		h.logger.Error(fallback, append(attrs, "error", err)...)
		httputil.Error(w, http.StatusInternalServerError, fallback)
	}
}

// respondMember re-reads the member and writes it with status.
func (h *Handler) respondMember(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	m, err := h.members.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to load member", "member_id", id)
		return
	}
	resp, err := h.toResponse(m, h.today())
	if err != nil {
		h.writeError(w, err, "failed to load member", "member_id", id)
		return
	}
	httputil.JSON(w, status, resp)
}
