package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/gymdesk/internal/config"
	httpserver "github.com/tendant/gymdesk/internal/http"
	"github.com/tendant/gymdesk/internal/http/features/members"
	"github.com/tendant/gymdesk/pkg/auth"
	"github.com/tendant/gymdesk/pkg/catalog"
	"github.com/tendant/gymdesk/pkg/repository"
	"github.com/tendant/gymdesk/pkg/storage"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		DBName:       cfg.DBName,
		SSLMode:      cfg.DBSSLMode,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	if cfg.MigrateOnStart {
		if err := repository.Migrate(context.Background(), db); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Initialize photo storage if configured
	var photos members.PhotoStore
	if cfg.HasRedis() {
		store, err := storage.NewPhotoStore(cfg.RedisURL, cfg.MaxPhotoBytes)
		if err != nil {
			logger.Error("failed to configure photo storage", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = store.Ping(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to connect to photo storage", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		photos = store
		logger.Info("photo storage enabled")
	} else {
		logger.Warn("REDIS_URL not set, member photos are disabled")
	}

	// Initialize repositories
	staffRepo := repository.NewStaffRepository(db)
	membersRepo := repository.NewMembersRepository(db)
	plansRepo := repository.NewPlansRepository(db)

	// Initialize services
	passwordService := auth.NewPasswordService(staffRepo)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL: cfg.AccessTokenTTL,
		JWTSecret:      []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
	})

	if cfg.HasBootstrapAdmin() {
		created, err := passwordService.Bootstrap(context.Background(), cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			logger.Error("failed to create bootstrap staff account", "error", err)
			os.Exit(1)
		}
		if created {
			logger.Info("bootstrap staff account created", "email", cfg.BootstrapAdminEmail)
		}
	}

	// Create router
	router, err := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		PasswordService:    passwordService,
		SessionService:     sessionService,
		MembersRepo:        membersRepo,
		PlansRepo:          plansRepo,
		Photos:             photos,
		Catalog:            catalog.Default(),
		AppBaseURL:         cfg.AppBaseURL,
		PageSize:           cfg.PageSize,
		ExpiringWindowDays: cfg.ExpiringWindowDays,
		CookieSecure:       cfg.CookieSecure,
		Now:                cfg.Now,
		RateLimitConfig:    cfg.RateLimit,
		SecurityHeaders:    cfg.SecurityHeaders,
		Validation:         cfg.Validation,
	})
	if err != nil {
		logger.Error("failed to create router", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "base_url", cfg.AppBaseURL, "timezone", cfg.Location.String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
