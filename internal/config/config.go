package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int
	LogLevel   string

	// Database
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	MigrateOnStart bool

	// Photo storage (optional)
	RedisURL      string
	MaxPhotoBytes int

	// AppBaseURL is the public origin encoded in member QR codes.
	AppBaseURL string

	// JWT
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	CookieSecure   bool

	// Membership rules
	Timezone           string
	Location           *time.Location
	PageSize           int
	ExpiringWindowDays int

	// First staff account, created when the staff table is empty
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	RateLimit       RateLimitConfig
	SecurityHeaders SecurityHeadersConfig
	Validation      ValidationConfig
}

// RateLimitConfig holds per-route-group rate limits.
type RateLimitConfig struct {
	Enabled bool

	AuthRequestsPerMinute int
	AuthWindowMinutes     int

	CheckRequestsPerMinute int
	CheckWindowMinutes     int

	APIRequestsPerMinute int
	APIWindowMinutes     int
}

// SecurityHeadersConfig holds the response security headers.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// ValidationConfig holds request validation limits.
type ValidationConfig struct {
	MaxRequestBodySize int64
	MaxNameLength      int
	MaxNotesLength     int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		// Database defaults (local Postgres on port 25432)
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnvInt("DB_PORT", 25432),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "gymdesk"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		RedisURL:      getEnv("REDIS_URL", ""),
		MaxPhotoBytes: getEnvInt("MAX_PHOTO_BYTES", 2<<20),

		AppBaseURL: strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),

		// JWT defaults
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTIssuer:      getEnv("JWT_ISSUER", "gymdesk"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", 8*time.Hour),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),

		Timezone:           getEnv("TIMEZONE", "Local"),
		PageSize:           getEnvInt("PAGE_SIZE", 20),
		ExpiringWindowDays: getEnvInt("EXPIRING_WINDOW_DAYS", 7),

		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),

		RateLimit: RateLimitConfig{
			Enabled:                getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequestsPerMinute:  getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindowMinutes:      getEnvInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 1),
			CheckRequestsPerMinute: getEnvInt("RATE_LIMIT_CHECK_REQUESTS", 60),
			CheckWindowMinutes:     getEnvInt("RATE_LIMIT_CHECK_WINDOW_MINUTES", 1),
			APIRequestsPerMinute:   getEnvInt("RATE_LIMIT_API_REQUESTS", 300),
			APIWindowMinutes:       getEnvInt("RATE_LIMIT_API_WINDOW_MINUTES", 1),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			CSP:                getEnv("SECURITY_CSP", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'"),
			HSTSMaxAge:         getEnvInt("SECURITY_HSTS_MAX_AGE", 0),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			XSSProtection:      getEnv("SECURITY_XSS_PROTECTION", "1; mode=block"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "strict-origin-when-cross-origin"),
			PermissionsPolicy:  getEnv("SECURITY_PERMISSIONS_POLICY", "geolocation=(), microphone=()"),
		},

		Validation: ValidationConfig{
			MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 4<<20)),
			MaxNameLength:      getEnvInt("MAX_NAME_LENGTH", 200),
			MaxNotesLength:     getEnvInt("MAX_NOTES_LENGTH", 2000),
		},
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	u, err := url.Parse(cfg.AppBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("APP_BASE_URL must be an absolute URL, got %q", cfg.AppBaseURL)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be at least 1")
	}
	if cfg.ExpiringWindowDays < 0 {
		return nil, fmt.Errorf("EXPIRING_WINDOW_DAYS must not be negative")
	}

	return cfg, nil
}

// HasRedis returns true if photo storage is configured.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// HasBootstrapAdmin returns true if a first staff account is configured.
func (c *Config) HasBootstrapAdmin() bool {
	return c.BootstrapAdminEmail != "" && c.BootstrapAdminPassword != ""
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Now returns the current time in the configured location.
func (c *Config) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
