// Package auth implements the password gate in front of the dashboard: a
// single shared password exchanged for a signed, time-boxed session cookie.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const (
	// CookieName is the session cookie set after a successful login
	CookieName = "dashboard_session"
	// SessionMaxAge is how long a session stays valid
	SessionMaxAge = 7 * 24 * time.Hour
)

// Session is the payload carried by the cookie
type Session struct {
	Authenticated bool  `json:"authenticated"`
	IssuedAt      int64 `json:"timestamp"`
}

// Manager verifies the dashboard password and issues session cookies
type Manager struct {
	password string
	secure   bool
	codec    *securecookie.SecureCookie
	logger   *zap.Logger
	now      func() time.Time
}

// Options configures a Manager
type Options struct {
	Password string
	// Secret signs the cookies; a random key is generated when empty, which
	// invalidates sessions on restart.
	Secret string
	// Secure marks cookies HTTPS-only
	Secure bool
	Logger *zap.Logger
	Now    func() time.Time
}

// NewManager creates a session manager
func NewManager(opts Options) *Manager {
	var hashKey []byte
	if opts.Secret != "" {
		sum := sha256.Sum256([]byte(opts.Secret))
		hashKey = sum[:]
	} else {
		hashKey = securecookie.GenerateRandomKey(32)
	}

	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(SessionMaxAge / time.Second))

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		password: opts.Password,
		secure:   opts.Secure,
		codec:    codec,
		logger:   logger,
		now:      now,
	}
}

// Configured reports whether a dashboard password is set
func (m *Manager) Configured() bool {
	return m.password != ""
}

// VerifyPassword compares password with the configured one. An unset
// password never matches.
func (m *Manager) VerifyPassword(password string) bool {
	if m.password == "" {
		m.logger.Error("DASHBOARD_PASSWORD environment variable is not set")
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
}

// CreateSession sets a fresh session cookie on w
func (m *Manager) CreateSession(w http.ResponseWriter) error {
	session := Session{Authenticated: true, IssuedAt: m.now().UnixMilli()}
	value, err := m.codec.Encode(CookieName, session)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the session cookie on w
func (m *Manager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsAuthenticated reports whether r carries a valid, unexpired session
func (m *Manager) IsAuthenticated(r *http.Request) bool {
	ok, _ := m.check(r)
	return ok
}

// check returns whether the session is valid and whether a cookie was present
func (m *Manager) check(r *http.Request) (valid, present bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return false, false
	}

	var session Session
	if err := m.codec.Decode(CookieName, cookie.Value, &session); err != nil {
		m.logger.Debug("Rejected session cookie", zap.Error(err))
		return false, true
	}

	age := m.now().Sub(time.UnixMilli(session.IssuedAt))
	return session.Authenticated && age >= 0 && age < SessionMaxAge, true
}
