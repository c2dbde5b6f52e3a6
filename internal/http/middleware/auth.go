package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/auth"
)

type contextKey string

const (
	// StaffIDKey is the context key for the authenticated staff ID.
	StaffIDKey contextKey = "staff_id"
	// ClaimsKey is the context key for the token claims.
	ClaimsKey contextKey = "claims"
)

// TokenValidator validates staff access tokens.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.AccessTokenClaims, error)
}

// Auth creates middleware that validates JWT access tokens.
// Checks Authorization header first, then falls back to cookie for web clients.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			// Try Authorization header first (mobile clients and API calls)
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = strings.TrimSpace(parts[1])
				}
			}

			// Fall back to cookie (web clients)
			if tokenString == "" {
				if token, ok := httputil.GetAccessTokenFromCookie(r); ok {
					tokenString = token
				}
			}

			if tokenString == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			claims, err := validator.ValidateAccessToken(tokenString)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			staffID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), StaffIDKey, staffID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetStaffID extracts the staff ID from the request context.
func GetStaffID(ctx context.Context) (uuid.UUID, bool) {
	staffID, ok := ctx.Value(StaffIDKey).(uuid.UUID)
	return staffID, ok
}

// GetClaims extracts the token claims from the request context.
func GetClaims(ctx context.Context) (*auth.AccessTokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.AccessTokenClaims)
	return claims, ok
}
