package goShield

import (
	"net/http"
	"time"
)

// CookieWriter encodes the two session artifacts as client-stored cookies.
// Write and Clear each act on both artifacts: the cookie values are fully
// constructed before either Set-Cookie header is emitted, so a partial
// write cannot be observed.
//
// The access cookie is HttpOnly; the CSRF cookie is script-readable so a
// client script can echo it into the CSRF header.
type CookieWriter struct {
	config CookieConfig
}

// NewCookieWriter returns a writer for the given cookie attributes.
func NewCookieWriter(cfg CookieConfig) *CookieWriter {
	return &CookieWriter{config: cfg}
}

// Write sets both session cookies. MaxAge derives from the session expiry.
func (c *CookieWriter) Write(w http.ResponseWriter, session *Session) {
	maxAge := int(time.Until(session.ExpiresAt) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}

	access := c.cookie(c.config.AccessName, session.AccessToken, maxAge, true)
	csrf := c.cookie(c.config.CSRFName, session.CSRFToken, maxAge, false)

	http.SetCookie(w, access)
	http.SetCookie(w, csrf)
}

// WriteCSRF sets only the CSRF cookie. Used by the pre-login bootstrap
// endpoint; the paired-write invariant applies to session issuance, not to
// bootstrap tokens.
func (c *CookieWriter) WriteCSRF(w http.ResponseWriter, token string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, c.cookie(c.config.CSRFName, token, maxAge, false))
}

// Clear expires both cookies immediately. Clearing an already-cleared
// cookie is a no-op at the transport level, so Clear is idempotent.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	access := c.cookie(c.config.AccessName, "", -1, true)
	csrf := c.cookie(c.config.CSRFName, "", -1, false)

	http.SetCookie(w, access)
	http.SetCookie(w, csrf)
}

// ReadAccess returns the access cookie value from a request, or "".
func (c *CookieWriter) ReadAccess(r *http.Request) string {
	cookie, err := r.Cookie(c.config.AccessName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ReadCSRF returns the CSRF cookie value from a request, or "".
func (c *CookieWriter) ReadCSRF(r *http.Request) string {
	cookie, err := r.Cookie(c.config.CSRFName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *CookieWriter) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.config.Path,
		Domain:   c.config.Domain,
		MaxAge:   maxAge,
		Secure:   c.config.Secure,
		HttpOnly: httpOnly,
		SameSite: c.config.SameSite,
	}
}
