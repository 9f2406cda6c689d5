// Package cookie provides the visitor session cookie helpers. The cart
// session cookie is the only state the browser holds; everything else
// lives server-side keyed by it.
package cookie

import (
	"net/http"
)

// SessionCookieName identifies the anonymous visitor session that keys
// the persisted cart.
const SessionCookieName = "toontail_cart"

// SessionMaxAge keeps the cart for 30 days, matching how long a visitor
// plausibly comes back to finish a purchase.
const SessionMaxAge = 30 * 24 * 60 * 60

// Config holds cookie security configuration.
type Config struct {
	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession sets the visitor session cookie.
func (c *Config) SetSession(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the visitor session cookie.
func (c *Config) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie is not present.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
