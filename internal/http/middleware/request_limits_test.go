package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tendant/gymdesk/internal/httputil"
)

func TestRequestSizeLimit(t *testing.T) {
	type memberRequest struct {
		Name string `json:"name"`
	}

	handler := RequestSizeLimit(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req memberRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.BodyError(w, err)
			return
		}
		httputil.JSON(w, http.StatusOK, req)
	}))

	tests := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{
			name:       "small body - accepted",
			body:       []byte(`{"name":"Ana"}`),
			wantStatus: http.StatusOK,
		},
		{
			name:       "too large - rejected",
			body:       append(append([]byte(`{"name":"`), bytes.Repeat([]byte("a"), 100)...), []byte(`"}`)...),
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/members", bytes.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
