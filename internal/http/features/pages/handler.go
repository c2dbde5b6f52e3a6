package pages

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/http/features/check"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
	"github.com/tendant/gymdesk/pkg/qrcode"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler renders the server-side HTML pages: the public checkpoint page and
// the printable member pass.
type Handler struct {
	logger    *slog.Logger
	templates *template.Template
	members   check.MemberLookup
	baseURL   string
	now       func() time.Time
}

// NewHandler creates a new pages handler. now defaults to time.Now.
func NewHandler(logger *slog.Logger, members check.MemberLookup, baseURL string, now func() time.Time) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Handler{
		logger:    logger,
		templates: tmpl,
		members:   members,
		baseURL:   baseURL,
		now:       now,
	}, nil
}

// CheckPageData holds data for the checkpoint page.
type CheckPageData struct {
	Title      string
	Outcome    string
	Message    string
	Name       string
	PlanName   string
	PhotoURL   string
	ValidUntil string
}

// PrintPageData holds data for the printable pass.
type PrintPageData struct {
	Title    string
	Name     string
	PlanName string
	CheckURL string
	QRCode   template.URL
}

var denyMessages = map[membership.DenyReason]string{
	membership.ReasonInactive: "This membership is inactive. Please see the front desk.",
	membership.ReasonExpired:  "This membership has expired. Please renew at the front desk.",
}

// Check renders the checkpoint result for a scanned member id. Every
// decision renders with 200; only lookup failures use 500.
// GET /check/{id}
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := CheckPageData{Title: "Membership check"}

	d, err := check.Resolve(r.Context(), h.members, id, h.now())
	switch {
	case errors.Is(err, membership.ErrInvalidDate):
		h.logger.Warn("checkpoint record has an invalid date", "member_id", id, "error", err)
		data.Outcome = "unavailable"
		data.Message = "This membership record cannot be displayed. Please see the front desk."
		h.render(w, http.StatusOK, "check.html", data)
		return
	case err != nil:
		h.logger.Error("checkpoint lookup failed", "member_id", id, "error", err)
		data.Outcome = "unavailable"
		data.Message = "The checkpoint is temporarily unavailable. Please try again."
		h.render(w, http.StatusInternalServerError, "check.html", data)
		return
	}

	data.Outcome = string(d.Result.Outcome)
	switch d.Result.Outcome {
	case membership.OutcomeNotFound:
		data.Message = "No membership matches this code."
	case membership.OutcomeDenied:
		data.Message = denyMessages[d.Result.Reason]
	case membership.OutcomePermitted:
		data.ValidUntil = d.Result.ValidUntil
	}
	if d.Member != nil {
		data.Name = d.Member.Name
		data.PlanName = d.Member.PlanName()
		if d.Member.PhotoURL != nil {
			data.PhotoURL = *d.Member.PhotoURL
		}
	}

	h.logger.Info("checkpoint", "member_id", id, "outcome", d.Result.Outcome, "reason", d.Result.Reason)
	h.render(w, http.StatusOK, "check.html", data)
}

// PrintQR renders a printable pass carrying the member's QR code.
// GET /members/{id}/qr/print
func (h *Handler) PrintQR(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Member not found", http.StatusNotFound)
		return
	}

	m, err := h.members.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrMemberNotFound) {
		http.Error(w, "Member not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load member", "member_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	checkURL := qrcode.CheckURL(h.baseURL, m.ID)
	png, err := qrcode.PNG(checkURL, qrcode.DefaultSize)
	if err != nil {
		h.logger.Error("failed to render QR code", "member_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "qr-print.html", PrintPageData{
		Title:    "Membership pass - " + m.Name,
		Name:     m.Name,
		PlanName: m.PlanName(),
		CheckURL: checkURL,
		QRCode:   template.URL(qrcode.DataURI(png)),
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, tmpl string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, tmpl, data); err != nil {
		h.logger.Error("failed to render page", "template", tmpl, "error", err)
	}
}
