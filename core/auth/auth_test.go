package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"sareeadmin.GO/core/cache"
	"sareeadmin.GO/core/supabase"
)

type fakeVerifier struct {
	users map[string]*supabase.User
	calls int
}

func (f *fakeVerifier) GetUser(_ context.Context, token string) (*supabase.User, error) {
	f.calls++
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func serve(t *testing.T, mw echo.MiddlewareFunc, path string, set func(*http.Request)) int {
	t.Helper()
	e := echo.New()
	e.Use(mw)
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/products", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if set != nil {
		set(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddleware_BasicAuth(t *testing.T) {
	t.Setenv("AUTH_TYPE", "basic")
	t.Setenv("API_USER", "admin")
	t.Setenv("API_PASS", "secret")
	mw := Middleware(nil, nil)

	if code := serve(t, mw, "/api/products", nil); code != http.StatusUnauthorized {
		t.Errorf("no credentials: %d", code)
	}
	if code := serve(t, mw, "/api/products", func(r *http.Request) { r.SetBasicAuth("admin", "secret") }); code != http.StatusOK {
		t.Errorf("valid credentials: %d", code)
	}
	if code := serve(t, mw, "/api/products", func(r *http.Request) { r.SetBasicAuth("admin", "nope") }); code != http.StatusUnauthorized {
		t.Errorf("bad password: %d", code)
	}
	if code := serve(t, mw, "/health", nil); code != http.StatusOK {
		t.Errorf("/health should skip auth: %d", code)
	}
}

func TestMiddleware_KeyAuth(t *testing.T) {
	t.Setenv("AUTH_TYPE", "key")
	t.Setenv("API_KEY", "k-123")
	mw := Middleware(nil, nil)

	if code := serve(t, mw, "/api/products", func(r *http.Request) { r.Header.Set("Authorization", "Bearer k-123") }); code != http.StatusOK {
		t.Errorf("valid key: %d", code)
	}
	if code := serve(t, mw, "/api/products", func(r *http.Request) { r.Header.Set("Authorization", "Bearer wrong") }); code != http.StatusUnauthorized {
		t.Errorf("wrong key: %d", code)
	}
}

func TestMiddleware_SupabaseToken(t *testing.T) {
	t.Setenv("AUTH_TYPE", "supabase")
	t.Setenv("ADMIN_EMAILS", "owner@shop.test")
	v := &fakeVerifier{users: map[string]*supabase.User{
		"good":  {ID: "1", Email: "Owner@shop.test"},
		"other": {ID: "2", Email: "someone@shop.test"},
	}}
	mw := Middleware(v, cache.NewCache())
	bearer := func(tok string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
	}

	if code := serve(t, mw, "/api/products", bearer("good")); code != http.StatusOK {
		t.Errorf("admin token: %d", code)
	}
	if code := serve(t, mw, "/api/products", bearer("good")); code != http.StatusOK {
		t.Errorf("cached admin token: %d", code)
	}
	if v.calls != 1 {
		t.Errorf("verifier calls = %d, want 1 (second request served from cache)", v.calls)
	}
	if code := serve(t, mw, "/api/products", bearer("other")); code != http.StatusUnauthorized {
		t.Errorf("non-admin token: %d", code)
	}
	if code := serve(t, mw, "/api/products", bearer("bogus")); code != http.StatusUnauthorized {
		t.Errorf("bogus token: %d", code)
	}
}
