package httputil

import (
	"net/http"
	"time"
)

// AccessTokenCookie is the cookie carrying the staff access token for
// browser clients.
const AccessTokenCookie = "access_token"

// CookieConfig holds cookie configuration.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool // Set to true in production (HTTPS)
	SameSite http.SameSite
}

// DefaultCookieConfig returns default cookie configuration.
func DefaultCookieConfig(secure bool) CookieConfig {
	return CookieConfig{
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAuthCookie sets the HttpOnly access token cookie.
func SetAuthCookie(w http.ResponseWriter, accessToken string, ttl time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// ClearAuthCookie clears the access token cookie.
func ClearAuthCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// GetAccessTokenFromCookie extracts access token from cookie.
func GetAccessTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// IsMobileClient checks if request is from a mobile client.
// Mobile clients should set header: X-Client-Type: mobile
func IsMobileClient(r *http.Request) bool {
	return r.Header.Get("X-Client-Type") == "mobile"
}
