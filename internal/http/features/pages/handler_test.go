package pages

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/gymdesk/pkg/domain"
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

func newTestHandler(t *testing.T, lookup *fakeLookup) http.Handler {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC) }
	h, err := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), lookup, "https://gym.example", now)
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	r := chi.NewRouter()
	r.Get("/check/{id}", h.Check)
	r.Get("/members/{id}/qr/print", h.PrintQR)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckPage(t *testing.T) {
	photo := "https://gym.example/photos/x"
	plan := &domain.Plan{ID: uuid.New(), Name: "Monthly"}
	ok := &domain.Member{ID: uuid.New(), Name: "Ana <Admin>", Status: domain.MemberStatusActive, EndDate: "2024-06-15", Plan: plan, PhotoURL: &photo}
	expired := &domain.Member{ID: uuid.New(), Name: "Bruno", Status: domain.MemberStatusActive, EndDate: "2024-06-14"}
	inactive := &domain.Member{ID: uuid.New(), Name: "Carla", Status: domain.MemberStatusInactive, EndDate: "2025-01-01"}
	broken := &domain.Member{ID: uuid.New(), Name: "Dario", Status: domain.MemberStatusActive, EndDate: ""}

	lookup := &fakeLookup{members: map[uuid.UUID]*domain.Member{
		ok.ID: ok, expired.ID: expired, inactive.ID: inactive, broken.ID: broken,
	}}
	h := newTestHandler(t, lookup)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		want       []string
		notWant    []string
	}{
		{"permitted", ok.ID.String(), http.StatusOK,
			[]string{"Access granted", "Ana &lt;Admin&gt;", "Monthly", "Valid until 2024-06-15", `src="https://gym.example/photos/x"`}, nil},
		{"expired", expired.ID.String(), http.StatusOK,
			[]string{"Access denied", "Bruno", "has expired"}, []string{"Access granted"}},
		{"inactive", inactive.ID.String(), http.StatusOK,
			[]string{"Access denied", "is inactive"}, []string{"Valid until"}},
		{"unknown", uuid.NewString(), http.StatusOK,
			[]string{"Member not found"}, []string{"Access denied"}},
		{"malformed", "abc", http.StatusOK,
			[]string{"Member not found"}, nil},
		{"invalid date", broken.ID.String(), http.StatusOK,
			[]string{"Cannot verify", "cannot be displayed"}, []string{"Dario"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, "/check/"+tt.id)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			body := rec.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("body should not contain %q", s)
				}
			}
		})
	}
}

func TestCheckPage_StorageFailure(t *testing.T) {
	h := newTestHandler(t, &fakeLookup{err: errors.New("timeout")})

	rec := get(h, "/check/"+uuid.NewString())
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "temporarily unavailable") {
		t.Error("body should explain the checkpoint is unavailable")
	}
}

func TestPrintQR(t *testing.T) {
	m := &domain.Member{ID: uuid.New(), Name: "Ana", Status: domain.MemberStatusActive, EndDate: "2024-07-01"}
	h := newTestHandler(t, &fakeLookup{members: map[uuid.UUID]*domain.Member{m.ID: m}})

	rec := get(h, "/members/"+m.ID.String()+"/qr/print")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `src="data:image/png;base64,`) {
		t.Error("page should embed the QR code as a data URI")
	}
	if !strings.Contains(body, "https://gym.example/check/"+m.ID.String()) {
		t.Error("page should show the encoded checkpoint URL")
	}

	if rec := get(h, "/members/"+uuid.NewString()+"/qr/print"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown member status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
