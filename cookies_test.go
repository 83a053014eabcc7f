package goShield

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testCookieConfig() CookieConfig {
	return CookieConfig{
		AccessName: "access_token",
		CSRFName:   "csrf_token",
		Path:       "/",
		Secure:     true,
		SameSite:   http.SameSiteLaxMode,
	}
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()

	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestWriteSetsBothCookies(t *testing.T) {
	writer := NewCookieWriter(testCookieConfig())
	rec := httptest.NewRecorder()

	writer.Write(rec, &Session{
		AccessToken: "access-value",
		CSRFToken:   "csrf-value",
		IssuedAt:    time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	})

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected exactly 2 cookies, got %d", len(cookies))
	}

	access := cookieByName(t, cookies, "access_token")
	if access.Value != "access-value" {
		t.Fatalf("unexpected access value %q", access.Value)
	}
	if !access.HttpOnly {
		t.Fatal("access cookie must be HttpOnly")
	}
	if !access.Secure || access.SameSite != http.SameSiteLaxMode {
		t.Fatal("access cookie must carry the configured attributes")
	}
	if access.MaxAge <= 0 {
		t.Fatalf("access cookie MaxAge must be positive, got %d", access.MaxAge)
	}

	csrf := cookieByName(t, cookies, "csrf_token")
	if csrf.Value != "csrf-value" {
		t.Fatalf("unexpected csrf value %q", csrf.Value)
	}
	if csrf.HttpOnly {
		t.Fatal("csrf cookie must be script-readable")
	}
	if !csrf.Secure {
		t.Fatal("csrf cookie must carry the Secure attribute")
	}
}

func TestClearExpiresBothCookies(t *testing.T) {
	writer := NewCookieWriter(testCookieConfig())
	rec := httptest.NewRecorder()

	writer.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected exactly 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 {
			t.Fatalf("cookie %q must be expired, MaxAge %d", c.Name, c.MaxAge)
		}
		if c.Value != "" {
			t.Fatalf("cookie %q must be emptied", c.Name)
		}
	}
}

func TestWriteCSRFSetsBootstrapCookieOnly(t *testing.T) {
	writer := NewCookieWriter(testCookieConfig())
	rec := httptest.NewRecorder()

	writer.WriteCSRF(rec, "bootstrap-token", 30*time.Minute)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected exactly 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "csrf_token" || c.Value != "bootstrap-token" {
		t.Fatalf("unexpected cookie %q=%q", c.Name, c.Value)
	}
	if c.HttpOnly {
		t.Fatal("bootstrap csrf cookie must be script-readable")
	}
	if c.MaxAge != int((30 * time.Minute).Seconds()) {
		t.Fatalf("unexpected MaxAge %d", c.MaxAge)
	}
}

func TestReadCookies(t *testing.T) {
	writer := NewCookieWriter(testCookieConfig())

	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "access-value"})
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: "csrf-value"})

	if got := writer.ReadAccess(r); got != "access-value" {
		t.Fatalf("ReadAccess returned %q", got)
	}
	if got := writer.ReadCSRF(r); got != "csrf-value" {
		t.Fatalf("ReadCSRF returned %q", got)
	}

	bare := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if got := writer.ReadAccess(bare); got != "" {
		t.Fatalf("expected empty access read, got %q", got)
	}
	if got := writer.ReadCSRF(bare); got != "" {
		t.Fatalf("expected empty csrf read, got %q", got)
	}
}
