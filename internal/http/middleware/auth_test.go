package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/auth"
	"github.com/tendant/gymdesk/pkg/domain"
)

func TestAuth(t *testing.T) {
	sessions := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL: time.Hour,
		JWTSecret:      []byte("test-secret"),
		Issuer:         "gymdesk",
	})
	staff := &domain.Staff{ID: uuid.New(), Email: "desk@gym.example"}
	tokens, err := sessions.IssueAccessToken(staff)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	var gotID uuid.UUID
	handler := Auth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetStaffID(r.Context())
		if claims, ok := GetClaims(r.Context()); !ok || claims.Email != staff.Email {
			t.Errorf("claims = %+v, %v", claims, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantError  string
	}{
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokens.AccessToken) },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "lowercase scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "bearer "+tokens.AccessToken) },
			wantStatus: http.StatusNoContent,
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: httputil.AccessTokenCookie, Value: tokens.AccessToken})
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantError:  "missing authorization",
		},
		{
			name:       "basic scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "missing authorization",
		},
		{
			name:       "invalid token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/v1/members", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				var body map[string]string
				json.NewDecoder(rec.Body).Decode(&body)
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
				return
			}
			if gotID != staff.ID {
				t.Errorf("staff id = %v, want %v", gotID, staff.ID)
			}
		})
	}
}
