package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/gymdesk/internal/config"
	"github.com/tendant/gymdesk/internal/http/features/check"
	"github.com/tendant/gymdesk/internal/http/features/members"
	"github.com/tendant/gymdesk/internal/http/features/pages"
	"github.com/tendant/gymdesk/internal/http/features/plans"
	"github.com/tendant/gymdesk/internal/http/features/session"
	"github.com/tendant/gymdesk/internal/http/middleware"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/auth"
	"github.com/tendant/gymdesk/pkg/catalog"
	"github.com/tendant/gymdesk/pkg/repository"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	PasswordService *auth.PasswordService
	SessionService  *auth.SessionService
	MembersRepo     *repository.MembersRepository
	PlansRepo       *repository.PlansRepository
	// Photos is nil when photo storage is not configured.
	Photos             members.PhotoStore
	Catalog            *catalog.Catalog
	AppBaseURL         string
	PageSize           int
	ExpiringWindowDays int
	CookieSecure       bool
	Now                func() time.Time
	RateLimitConfig    config.RateLimitConfig
	SecurityHeaders    config.SecurityHeadersConfig
	Validation         config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Create rate limiters for different endpoint types
	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	sessionHandler := session.NewHandler(cfg.Logger, cfg.PasswordService, cfg.SessionService, cfg.CookieSecure)
	membersHandler := members.NewHandler(cfg.Logger, cfg.MembersRepo, cfg.PlansRepo, cfg.Photos, members.Config{
		BaseURL:            cfg.AppBaseURL,
		PageSize:           cfg.PageSize,
		ExpiringWindowDays: cfg.ExpiringWindowDays,
		MaxNameLength:      cfg.Validation.MaxNameLength,
		MaxNotesLength:     cfg.Validation.MaxNotesLength,
		Now:                cfg.Now,
	})
	plansHandler := plans.NewHandler(cfg.Logger, cfg.PlansRepo, cfg.Catalog, cfg.Validation.MaxNameLength)
	checkHandler := check.NewHandler(cfg.Logger, cfg.MembersRepo, cfg.Now)
	pagesHandler, err := pages.NewHandler(cfg.Logger, cfg.MembersRepo, cfg.AppBaseURL, cfg.Now)
	if err != nil {
		return nil, err
	}

	// Staff sign-in
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		sessionHandler.LoginRoutes(r)
	})

	// Public checkpoint, reached by scanning a member QR code
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["check"])
		r.Use(middleware.NoStore)
		r.Get("/check/{id}", pagesHandler.Check)
		r.Get("/v1/check/{id}", checkHandler.Check)
	})

	// Member photos are shown on the public checkpoint page
	r.With(rateLimiters["check"]).Get("/photos/{id}", membersHandler.Photo)

	// Staff routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.SessionService))
		r.Use(rateLimiters["api"])
		r.Use(middleware.NoStore)

		sessionHandler.StaffRoutes(r)
		membersHandler.RegisterRoutes(r)
		plansHandler.RegisterRoutes(r)
		r.Get("/members/{id}/qr/print", pagesHandler.PrintQR)
	})

	return r, nil
}
