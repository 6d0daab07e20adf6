package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(clock *fakeClock) *Manager {
	return NewManager(Options{Password: "letmein", Secret: "test-secret", Now: clock.Now})
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestVerifyPassword(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})
	assert.True(t, m.VerifyPassword("letmein"))
	assert.False(t, m.VerifyPassword("wrong"))
	assert.False(t, m.VerifyPassword(""))

	unset := NewManager(Options{})
	assert.False(t, unset.Configured())
	assert.False(t, unset.VerifyPassword(""))
}

func TestSessionRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(clock)

	w := httptest.NewRecorder()
	require.NoError(t, m.CreateSession(w))
	cookie := sessionCookie(t, w)

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotContains(t, cookie.Value, "authenticated", "cookie value is opaque")

	r := httptest.NewRequest("GET", "/api/upload-data", nil)
	r.AddCookie(cookie)
	assert.True(t, m.IsAuthenticated(r))
}

func TestSessionExpires(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(clock)

	w := httptest.NewRecorder()
	require.NoError(t, m.CreateSession(w))
	cookie := sessionCookie(t, w)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookie)

	clock.t = clock.t.Add(SessionMaxAge - time.Minute)
	assert.True(t, m.IsAuthenticated(r))

	clock.t = clock.t.Add(2 * time.Minute)
	assert.False(t, m.IsAuthenticated(r))
}

func TestSessionRejectsForgery(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: `{"authenticated":true,"timestamp":9999999999999}`})
	assert.False(t, m.IsAuthenticated(r))

	// A cookie signed with a different secret is rejected too.
	other := NewManager(Options{Password: "letmein", Secret: "another-secret"})
	w := httptest.NewRecorder()
	require.NoError(t, other.CreateSession(w))
	r = httptest.NewRequest("GET", "/", nil)
	r.AddCookie(sessionCookie(t, w))
	assert.False(t, m.IsAuthenticated(r))
}

func TestRequire(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})
	h := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, w.Body.String())

	login := httptest.NewRecorder()
	require.NoError(t, m.CreateSession(login))
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(sessionCookie(t, login))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClearInvalid(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})
	h := m.ClearInvalid(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "tampered"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	cleared := sessionCookie(t, w)
	assert.Equal(t, -1, cleared.MaxAge)

	// No cookie, nothing to clear.
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard", nil))
	assert.Empty(t, w.Result().Cookies())
}
