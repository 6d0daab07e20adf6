package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/contextia/website/internal/auth"
	"github.com/contextia/website/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Port:              0,
		DataDir:           dir,
		Version:           "test",
		ResendBaseURL:     "http://127.0.0.1:1",
		ContactFrom:       "onboarding@resend.dev",
		DashboardPassword: "open-sesame",
		SessionSecret:     "test-secret",
		MaxUploadBytes:    1 << 20,
		ActivityDB:        filepath.Join(dir, "activity.db"),
		Links:             config.Links{Email: "hello@example.com"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func get(srv *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestLandingPage(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `<html lang="en">`)
	assert.Contains(t, w.Body.String(), "mailto:hello@example.com")

	w = get(srv, "/?lang=it")
	assert.Contains(t, w.Body.String(), `<html lang="it">`)
	assert.Contains(t, w.Body.String(), "Mettiti in Contatto")

	w = get(srv, "/?lang=fr")
	assert.Contains(t, w.Body.String(), `<html lang="en">`)
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/static/site.css")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(srv, "/static/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/contact")
}

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="login-form"`)

	// A forged cookie is cleared and the login form is shown
	w = get(srv, "/dashboard", &http.Cookie{Name: auth.CookieName, Value: "forged"})
	assert.Contains(t, w.Body.String(), `id="login-form"`)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	req := httptest.NewRequest("POST", "/api/auth", strings.NewReader(`{"password":"open-sesame"}`))
	req.Header.Set("Content-Type", "application/json")
	login := httptest.NewRecorder()
	srv.Handler().ServeHTTP(login, req)
	require.Equal(t, http.StatusOK, login.Code)
	session := login.Result().Cookies()
	require.Len(t, session, 1)

	w = get(srv, "/dashboard", session[0])
	assert.Contains(t, w.Body.String(), `id="dashboard"`)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestAPIMounted(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(srv, "/api/dashboard/summary")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(srv, "/api/info")
	assert.Contains(t, w.Body.String(), `"email_configured":false`)
	assert.Contains(t, w.Body.String(), `"data_present":false`)
}

func TestMissingActivityLogDegrades(t *testing.T) {
	cfg := testConfig(t)
	cfg.ActivityDB = filepath.Join(cfg.DataDir, "missing", "dir", "activity.db")

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	defer srv.Stop()

	w := get(srv, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartStop(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
