package members

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/contact"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
	"github.com/tendant/gymdesk/pkg/qrcode"
)

// QRResponse carries the checkpoint URL and its QR image.
type QRResponse struct {
	URL           string `json:"url"`
	QRCodeDataURI string `json:"qr_code_data_uri"`
}

// ScanRequest is a raw payload read by a QR scanner.
type ScanRequest struct {
	Payload string `json:"payload"`
}

// ScanResponse identifies the member a payload points at.
type ScanResponse struct {
	MemberID  string `json:"member_id"`
	MemberURL string `json:"member_url"`
	CheckURL  string `json:"check_url"`
}

// EndDateRequest asks for the end date the member form should prefill.
type EndDateRequest struct {
	StartDate string  `json:"start_date"`
	PlanID    *string `json:"plan_id"`
}

// EndDateResponse is the derived end date.
type EndDateResponse struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
}

// VCard exports the member as a contact card.
// GET /v1/members/{id}/vcard
func (h *Handler) VCard(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contact.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+contact.Filename(m)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(contact.VCard(m)))
}

// QR returns the checkpoint URL and a data URI of its QR code.
// GET /v1/members/{id}/qr
func (h *Handler) QR(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	url := qrcode.CheckURL(h.cfg.BaseURL, m.ID)
	png, err := qrcode.PNG(url, qrcode.DefaultSize)
	if err != nil {
		h.writeError(w, err, "failed to render QR code", "member_id", m.ID)
		return
	}
	httputil.JSON(w, http.StatusOK, QRResponse{URL: url, QRCodeDataURI: qrcode.DataURI(png)})
}

// QRImage returns the QR code as a PNG.
// GET /v1/members/{id}/qr.png
func (h *Handler) QRImage(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	png, err := qrcode.PNG(qrcode.CheckURL(h.cfg.BaseURL, m.ID), qrcode.DefaultSize)
	if err != nil {
		h.writeError(w, err, "failed to render QR code", "member_id", m.ID)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+strings.TrimSuffix(contact.Filename(m), ".vcf")+`-qr.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Scan resolves a scanned QR payload to a member id. Anything that is not a
// checkpoint URL is rejected.
// POST /v1/scan
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	raw, ok := qrcode.ParseCheckURL(strings.TrimSpace(req.Payload))
	if !ok {
		httputil.Error(w, http.StatusUnprocessableEntity, "unrecognized QR payload")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.Error(w, http.StatusUnprocessableEntity, "unrecognized QR payload")
		return
	}

	httputil.JSON(w, http.StatusOK, ScanResponse{
		MemberID:  id.String(),
		MemberURL: "/v1/members/" + id.String(),
		CheckURL:  qrcode.CheckURL(h.cfg.BaseURL, id),
	})
}

// EndDate derives the end date for a start date and an optional plan.
// POST /v1/end-date
func (h *Handler) EndDate(w http.ResponseWriter, r *http.Request) {
	var req EndDateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	start := h.today()
	if req.StartDate != "" {
		var err error
		if start, err = membership.ParseDate(req.StartDate); err != nil {
			httputil.Error(w, http.StatusBadRequest, "start_date must be a date in YYYY-MM-DD format")
			return
		}
	}

	var plan *domain.Plan
	if req.PlanID != nil && strings.TrimSpace(*req.PlanID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*req.PlanID))
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "plan_id is not a valid id")
			return
		}
		plan, err = h.plans.GetByID(r.Context(), id)
		if errors.Is(err, domain.ErrPlanNotFound) {
			httputil.Error(w, http.StatusNotFound, "membership plan not found")
			return
		}
		if err != nil {
			h.writeError(w, err, "failed to load membership plan", "plan_id", id)
			return
		}
	}

	end := membership.DeriveEndDate(start, plan)
	httputil.JSON(w, http.StatusOK, EndDateResponse{
		StartDate:    membership.FormatDate(start),
		EndDate:      membership.FormatDate(end),
		DurationDays: membership.DaysBetween(start, end),
	})
}
