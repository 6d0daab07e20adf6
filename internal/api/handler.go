package api

import (
	"net/http"
	"time"

	"github.com/contextia/website/internal/activity"
	"github.com/contextia/website/internal/auth"
	"github.com/contextia/website/internal/config"
	"github.com/contextia/website/internal/httputil"
	"github.com/contextia/website/internal/mail"
	"github.com/contextia/website/internal/testruns"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler provides HTTP API endpoints
type Handler struct {
	store    *testruns.Store
	sessions *auth.Manager
	mailer   mail.Sender
	activity activity.Recorder
	cfg      config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// Deps are the collaborators of a Handler
type Deps struct {
	Store    *testruns.Store
	Sessions *auth.Manager
	Mailer   mail.Sender
	Activity activity.Recorder
	Logger   *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(deps Deps, cfg config.Config) *Handler {
	h := &Handler{
		store:    deps.Store,
		sessions: deps.Sessions,
		mailer:   deps.Mailer,
		activity: deps.Activity,
		cfg:      cfg,
		logger:   deps.Logger,
		now:      time.Now,
	}
	if h.activity == nil {
		h.activity = activity.Nop{}
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Public
	r.HandleFunc("/contact", h.handleContact).Methods("POST")
	r.HandleFunc("/auth", h.handleAuth).Methods("POST")
	r.HandleFunc("/auth", h.handleAuthStatus).Methods("GET")

	// Session required
	private := r.NewRoute().Subrouter()
	private.Use(h.sessions.Require)
	private.HandleFunc("/upload-data", h.handleUpload).Methods("POST")
	private.HandleFunc("/upload-data", h.handleGetData).Methods("GET")
	private.HandleFunc("/upload-data", h.handleClearData).Methods("DELETE")
	private.HandleFunc("/dashboard/summary", h.handleSummary).Methods("GET")
	private.HandleFunc("/dashboard/charts", h.handleCharts).Methods("GET")
	private.HandleFunc("/dashboard/results", h.handleResults).Methods("GET")
	private.HandleFunc("/dashboard/export.csv", h.handleExport).Methods("GET")
	private.HandleFunc("/activity", h.handleActivity).Methods("GET")
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information. Credentials are reported only as
// present or absent.
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.Load()
	if err != nil {
		h.logger.Warn("Failed to load test runs", zap.Error(err))
	}
	info := map[string]interface{}{
		"version":             h.cfg.Version,
		"data_present":        len(runs) > 0,
		"email_configured":    h.cfg.ResendAPIKey != "" && h.cfg.ContactEmail != "",
		"dashboard_protected": h.sessions.Configured(),
	}
	httputil.RespondJSON(w, http.StatusOK, info)
}

// record writes an audit event; failures are logged and otherwise ignored
func (h *Handler) record(r *http.Request, kind activity.Kind, status, detail string) {
	err := h.activity.Record(r.Context(), activity.Event{Kind: kind, Status: status, Detail: detail})
	if err != nil {
		h.logger.Warn("Failed to record activity", zap.String("kind", string(kind)), zap.Error(err))
	}
}
