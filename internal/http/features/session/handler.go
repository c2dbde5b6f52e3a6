package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/gymdesk/internal/http/middleware"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/domain"
)

// Authenticator verifies staff credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Staff, error)
}

// TokenIssuer issues staff access tokens.
type TokenIssuer interface {
	IssueAccessToken(staff *domain.Staff) (*domain.TokenPair, error)
	AccessTokenTTL() time.Duration
}

// Handler handles staff sign-in and sign-out.
type Handler struct {
	logger       *slog.Logger
	passwords    Authenticator
	tokens       TokenIssuer
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new session handler.
func NewHandler(logger *slog.Logger, passwords Authenticator, tokens TokenIssuer, cookieSecure bool) *Handler {
	return &Handler{
		logger:       logger,
		passwords:    passwords,
		tokens:       tokens,
		cookieConfig: httputil.DefaultCookieConfig(cookieSecure),
	}
}

// LoginRequest represents a staff login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffResponse describes the signed-in staff member.
type StaffResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// LoginRoutes registers the public sign-in route.
func (h *Handler) LoginRoutes(r chi.Router) {
	r.Post("/v1/auth/login", h.Login)
}

// StaffRoutes registers routes that need an authenticated staff member.
func (h *Handler) StaffRoutes(r chi.Router) {
	r.Post("/v1/auth/logout", h.Logout)
	r.Get("/v1/auth/me", h.Me)
}

// Login authenticates a staff member and issues an access token.
// POST /v1/auth/login
//
// Web clients also receive the token as an HttpOnly cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BodyError(w, err)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	staff, err := h.passwords.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, domain.ErrAccountLocked):
			httputil.Error(w, http.StatusLocked, "account is temporarily locked")
		default:
			h.logger.Error("login failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to sign in")
		}
		return
	}

	tokens, err := h.tokens.IssueAccessToken(staff)
	if err != nil {
		h.logger.Error("failed to issue access token", "staff_id", staff.ID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	if !httputil.IsMobileClient(r) {
		httputil.SetAuthCookie(w, tokens.AccessToken, h.tokens.AccessTokenTTL(), h.cookieConfig)
	}

	h.logger.Info("staff signed in", "staff_id", staff.ID)
	httputil.JSON(w, http.StatusOK, tokens)
}

// Logout clears the access token cookie. Tokens are stateless and expire on
// their own.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.ClearAuthCookie(w, h.cookieConfig)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in staff member.
// GET /v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	httputil.JSON(w, http.StatusOK, StaffResponse{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	})
}
