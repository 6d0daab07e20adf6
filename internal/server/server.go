package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/contextia/website/internal/activity"
	"github.com/contextia/website/internal/api"
	"github.com/contextia/website/internal/auth"
	"github.com/contextia/website/internal/config"
	"github.com/contextia/website/internal/content"
	"github.com/contextia/website/internal/mail"
	"github.com/contextia/website/internal/testruns"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed static/*
var staticFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	logger     *zap.Logger
	httpServer *http.Server
	router     *mux.Router
	store      *testruns.Store
	activity   activity.Recorder
	closeLog   func() error
	sessions   *auth.Manager
	mailer     *mail.Client
	renderer   *content.Renderer
}

// New creates a new Server with all components initialized
func New(cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   mux.NewRouter(),
		activity: activity.Nop{},
		closeLog: func() error { return nil },
	}

	store, err := testruns.NewStore(cfg.TestResultsPath())
	if err != nil {
		return nil, err
	}
	s.store = store

	// The audit trail is optional; the site keeps working without it
	if cfg.ActivityDB != "" {
		log, err := activity.Open(cfg.ActivityDB)
		if err != nil {
			logger.Warn("Activity log not available", zap.Error(err))
		} else {
			s.activity = log
			s.closeLog = log.Close
		}
	}

	renderer, err := content.NewRenderer(content.Links{
		WhatsApp: cfg.Links.WhatsApp,
		Email:    cfg.Links.Email,
		LinkedIn: cfg.Links.LinkedIn,
	})
	if err != nil {
		s.closeLog()
		return nil, err
	}
	s.renderer = renderer

	s.mailer = mail.NewClient(cfg.ResendAPIKey, cfg.ResendBaseURL)
	s.sessions = auth.NewManager(auth.Options{
		Password: cfg.DashboardPassword,
		Secret:   cfg.SessionSecret,
		Secure:   cfg.Production,
		Logger:   logger,
	})

	if !s.sessions.Configured() {
		logger.Warn("DASHBOARD_PASSWORD is not set; the dashboard cannot be unlocked")
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}
	if !s.mailer.Configured() || cfg.ContactEmail == "" {
		logger.Warn("Email relay not configured; contact submissions will fail",
			zap.Bool("api_key_present", cfg.ResendAPIKey != ""),
			zap.Bool("contact_email_present", cfg.ContactEmail != ""))
	}

	if err := s.setupRoutes(); err != nil {
		s.closeLog()
		return nil, err
	}
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	s.router.Use(s.logRequests)

	// API routes
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiHandler := api.NewHandler(api.Deps{
		Store:    s.store,
		Sessions: s.sessions,
		Mailer:   s.mailer,
		Activity: s.activity,
		Logger:   s.logger.Named("api"),
	}, s.cfg)
	apiHandler.RegisterRoutes(apiRouter)

	// Static assets (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("could not load embedded static files: %w", err)
	}
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	// Pages
	s.router.Handle("/dashboard", s.sessions.ClearInvalid(http.HandlerFunc(s.handleDashboard))).Methods("GET")
	s.router.HandleFunc("/", s.handleLanding).Methods("GET")
	return nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleLanding renders the marketing page; ?lang=it selects Italian
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, func(w io.Writer) error {
		return s.renderer.Landing(w, r.URL.Query().Get("lang"))
	})
}

// handleDashboard renders the dashboard for a valid session and the login
// form otherwise
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if s.sessions.IsAuthenticated(r) {
		s.render(w, s.renderer.Dashboard)
		return
	}
	s.render(w, s.renderer.Login)
}

// render buffers a page so a template error never yields a partial response
func (s *Server) render(w http.ResponseWriter, page func(io.Writer) error) {
	var buf bytes.Buffer
	if err := page(&buf); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("Failed to write page", zap.Error(err))
	}
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return err
	}
	return s.serve(ln)
}

func (s *Server) serve(ln net.Listener) error {
	s.logger.Info("Server listening", zap.String("addr", ln.Addr().String()))
	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if cerr := s.closeLog(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Run serves until ctx is cancelled, then shuts down
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		s.closeLog()
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.serve(ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		return s.Stop()
	})
	return g.Wait()
}
