package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/toontail/storefront/internal/cookie"
)

// sessionID returns the visitor session from the request cookie, or ""
// when the visitor has no session yet.
func sessionID(r *http.Request) string {
	return cookie.Get(r, cookie.SessionCookieName)
}

// ensureSession returns the visitor session, minting and setting a new
// one when the request carries none. Mutating endpoints call this so a
// first add-to-cart establishes the session.
func ensureSession(w http.ResponseWriter, r *http.Request, cookies *cookie.Config) string {
	if id := sessionID(r); id != "" {
		return id
	}
	id := uuid.New().String()
	cookies.SetSession(w, id)
	return id
}
