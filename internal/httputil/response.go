package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// DecodeJSON decodes the request body into v. An empty body is reported as
// io.EOF so callers can distinguish it from malformed JSON.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// BodyError writes the response for a DecodeJSON failure.
func BodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		Error(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		Error(w, http.StatusBadRequest, "request body is required")
	default:
		Error(w, http.StatusBadRequest, "invalid request body")
	}
}

// Confirmed reports whether the request carries ?confirm=true.
func Confirmed(r *http.Request) bool {
	switch r.URL.Query().Get("confirm") {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ConfirmationRequired is the body of a 428 response for actions that must
// be repeated with ?confirm=true.
type ConfirmationRequired struct {
	ConfirmationRequired bool   `json:"confirmation_required"`
	Action               string `json:"action"`
	Preview              any    `json:"preview,omitempty"`
}

// RequireConfirmation writes a 428 describing the pending action.
func RequireConfirmation(w http.ResponseWriter, action string, preview any) {
	JSON(w, http.StatusPreconditionRequired, ConfirmationRequired{
		ConfirmationRequired: true,
		Action:               action,
		Preview:              preview,
	})
}
