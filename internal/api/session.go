package api

import (
	"encoding/json"
	"net/http"

	"github.com/contextia/website/internal/activity"
	"github.com/contextia/website/internal/httputil"
	"go.uber.org/zap"
)

type authRequest struct {
	Password string
	Action   string
	// Mistyped is set when a non-string password was sent; it never matches
	Mistyped bool
}

func (a *authRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	a.Action = httputil.LooseString(fields["action"])
	raw := fields["password"]
	if err := json.Unmarshal(raw, &a.Password); err != nil {
		a.Password = ""
		a.Mistyped = httputil.Truthy(raw)
	}
	return nil
}

// handleAuth logs in with the dashboard password or logs out
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		h.logger.Warn("Auth error", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Action == "logout" {
		h.sessions.ClearSession(w)
		httputil.RespondResult(w, http.StatusOK, "Logged out successfully")
		return
	}

	if req.Password == "" && !req.Mistyped {
		httputil.RespondResult(w, http.StatusBadRequest, "Password is required")
		return
	}

	if req.Mistyped || !h.sessions.VerifyPassword(req.Password) {
		h.record(r, activity.KindLogin, "failed", r.RemoteAddr)
		httputil.RespondResult(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := h.sessions.CreateSession(w); err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.record(r, activity.KindLogin, "ok", r.RemoteAddr)
	httputil.RespondResult(w, http.StatusOK, "Authentication successful")
}

// handleAuthStatus reports whether the request carries a valid session
func (h *Handler) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{
		"authenticated": h.sessions.IsAuthenticated(r),
	})
}
