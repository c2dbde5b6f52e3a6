package check

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
)

type fakeLookup struct {
	members map[uuid.UUID]*domain.Member
	err     error
}

func (f *fakeLookup) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return m, nil
}

var checkDay = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func newLookup() (*fakeLookup, map[string]uuid.UUID) {
	plan := &domain.Plan{ID: uuid.New(), Name: "Monthly", DurationDays: 30}
	ids := map[string]uuid.UUID{
		"valid":    uuid.New(),
		"lastday":  uuid.New(),
		"expired":  uuid.New(),
		"inactive": uuid.New(),
		"broken":   uuid.New(),
	}
	f := &fakeLookup{members: map[uuid.UUID]*domain.Member{
		ids["valid"]:    {ID: ids["valid"], Name: "Ana", Status: domain.MemberStatusActive, EndDate: "2024-07-01", Plan: plan, PlanID: &plan.ID},
		ids["lastday"]:  {ID: ids["lastday"], Name: "Bruno", Status: domain.MemberStatusActive, EndDate: "2024-06-15"},
		ids["expired"]:  {ID: ids["expired"], Name: "Carla", Status: domain.MemberStatusActive, EndDate: "2024-06-14"},
		ids["inactive"]: {ID: ids["inactive"], Name: "Dario", Status: domain.MemberStatusInactive, EndDate: "2024-12-31"},
		ids["broken"]:   {ID: ids["broken"], Name: "Eva", Status: domain.MemberStatusActive, EndDate: "31/12/2024"},
	}}
	return f, ids
}

func TestResolve(t *testing.T) {
	lookup, ids := newLookup()

	tests := []struct {
		name        string
		id          string
		wantOutcome membership.Outcome
		wantReason  membership.DenyReason
	}{
		{"valid", ids["valid"].String(), membership.OutcomePermitted, ""},
		{"end date is today", ids["lastday"].String(), membership.OutcomePermitted, ""},
		{"expired", ids["expired"].String(), membership.OutcomeDenied, membership.ReasonExpired},
		{"inactive", ids["inactive"].String(), membership.OutcomeDenied, membership.ReasonInactive},
		{"unknown", uuid.NewString(), membership.OutcomeNotFound, ""},
		{"malformed", "not-a-uuid", membership.OutcomeNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Resolve(context.Background(), lookup, tt.id, checkDay)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if d.Result.Outcome != tt.wantOutcome || d.Result.Reason != tt.wantReason {
				t.Errorf("Resolve() = %+v, want %s/%s", d.Result, tt.wantOutcome, tt.wantReason)
			}
			if (d.Member == nil) != (tt.wantOutcome == membership.OutcomeNotFound) {
				t.Errorf("Member = %v for outcome %s", d.Member, tt.wantOutcome)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	lookup, ids := newLookup()

	_, err := Resolve(context.Background(), lookup, ids["broken"].String(), checkDay)
	if !errors.Is(err, membership.ErrInvalidDate) {
		t.Errorf("broken record error = %v, want ErrInvalidDate", err)
	}

	lookup.err = errors.New("connection refused")
	_, err = Resolve(context.Background(), lookup, ids["valid"].String(), checkDay)
	if err == nil || errors.Is(err, membership.ErrInvalidDate) {
		t.Errorf("storage error = %v, want pass-through", err)
	}
}

func TestHandler_Check(t *testing.T) {
	lookup, ids := newLookup()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), lookup, func() time.Time { return checkDay })

	r := chi.NewRouter()
	r.Get("/v1/check/{id}", h.Check)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantBody   map[string]any
	}{
		{"permitted", ids["valid"].String(), http.StatusOK, map[string]any{"outcome": "permitted", "valid_until": "2024-07-01"}},
		{"denied", ids["inactive"].String(), http.StatusOK, map[string]any{"outcome": "denied", "reason": "inactive"}},
		{"not found", uuid.NewString(), http.StatusOK, map[string]any{"outcome": "not_found"}},
		{"invalid date", ids["broken"].String(), http.StatusInternalServerError, map[string]any{"error": "member record has an invalid date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/check/"+tt.id, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]any
			json.NewDecoder(rec.Body).Decode(&body)
			for k, v := range tt.wantBody {
				if body[k] != v {
					t.Errorf("%s = %v, want %v", k, body[k], v)
				}
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/check/"+ids["valid"].String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var resp Response
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Member == nil || resp.Member.Name != "Ana" || resp.Member.PlanName != "Monthly" {
		t.Errorf("Member = %+v", resp.Member)
	}
}
