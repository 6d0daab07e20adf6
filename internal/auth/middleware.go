package auth

import (
	"net/http"

	"github.com/contextia/website/internal/httputil"
)

// Require rejects requests without a valid session with 401
func (m *Manager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r) {
			httputil.RespondResult(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClearInvalid drops a stale or tampered session cookie before the page
// handler runs, so the page falls through to the login form.
func (m *Manager) ClearInvalid(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if valid, present := m.check(r); present && !valid {
			m.ClearSession(w)
		}
		next.ServeHTTP(w, r)
	})
}
