package members

import (
	"time"

	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
	"github.com/tendant/gymdesk/pkg/qrcode"
)

// MemberRequest is the body of create and update requests.
type MemberRequest struct {
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	PlanID    *string `json:"plan_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes"`
}

// MemberResponse is a member with its derived validity.
type MemberResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	PlanID    *string `json:"plan_id,omitempty"`
	PlanName  string  `json:"plan_name,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`

	State        membership.State `json:"state"`
	Allowed      bool             `json:"allowed"`
	IsExpired    bool             `json:"is_expired"`
	ExpiringSoon bool             `json:"expiring_soon"`
	DaysLeft     int              `json:"days_left"`
	CheckURL     string           `json:"check_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberListResponse is one page of members.
type MemberListResponse struct {
	Members    []MemberResponse `json:"members"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// ExpiringResponse lists active members whose period ends soon.
type ExpiringResponse struct {
	Days    int              `json:"days"`
	Members []MemberResponse `json:"members"`
}

// TransitionPreview describes what a pending action will write.
type TransitionPreview struct {
	Patch  membership.Patch `json:"patch"`
	Result MemberResponse   `json:"result"`
}

// toResponse derives validity on today. It fails with
// membership.ErrInvalidDate when the record cannot be displayed.
func (h *Handler) toResponse(m *domain.Member, today time.Time) (MemberResponse, error) {
	v, err := membership.Evaluate(m, today)
	if err != nil {
		return MemberResponse{}, err
	}

	resp := MemberResponse{
		ID:           m.ID.String(),
		Name:         m.Name,
		Phone:        m.Phone,
		Email:        m.Email,
		PhotoURL:     m.PhotoURL,
		PlanName:     m.PlanName(),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Status:       string(m.Status),
		Notes:        m.Notes,
		State:        v.State,
		Allowed:      v.Allowed,
		IsExpired:    v.IsExpired,
		ExpiringSoon: v.IsExpiringSoon(h.cfg.ExpiringWindowDays),
		DaysLeft:     v.DaysLeft(),
		CheckURL:     qrcode.CheckURL(h.cfg.BaseURL, m.ID),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.PlanID != nil {
		id := m.PlanID.String()
		resp.PlanID = &id
	}
	return resp, nil
}

// toResponses converts a list, leaving out records that cannot be displayed.
func (h *Handler) toResponses(list []*domain.Member, today time.Time) []MemberResponse {
	out := make([]MemberResponse, 0, len(list))
	for _, m := range list {
		resp, err := h.toResponse(m, today)
		if err != nil {
			h.logger.Warn("skipping member with invalid date", "member_id", m.ID, "error", err)
			continue
		}
		out = append(out, resp)
	}
	return out
}
