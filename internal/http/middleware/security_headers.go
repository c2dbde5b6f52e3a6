package middleware

import (
	"fmt"
	"net/http"

	"github.com/tendant/gymdesk/internal/config"
)

// SecurityHeaders creates middleware that applies the configured response
// security headers. Empty values are skipped.
func SecurityHeaders(cfg config.SecurityHeadersConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	headers := securityHeaderSet(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable. Checkpoint results change with the
// date and must never be served from a cache.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func securityHeaderSet(cfg config.SecurityHeadersConfig) map[string]string {
	headers := map[string]string{}
	add := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}

	add("Content-Security-Policy", cfg.CSP)
	if cfg.HSTSMaxAge > 0 {
		add("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge))
	}
	add("X-Frame-Options", cfg.FrameOptions)
	add("X-Content-Type-Options", cfg.ContentTypeOptions)
	add("X-XSS-Protection", cfg.XSSProtection)
	add("Referrer-Policy", cfg.ReferrerPolicy)
	add("Permissions-Policy", cfg.PermissionsPolicy)

	return headers
}
