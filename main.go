package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/contextia/website/internal/config"
	"github.com/contextia/website/internal/logging"
	"github.com/contextia/website/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

type serveOptions struct {
	port         int
	portAttempts int
	dataDir      string
	envFile      string
	settingsFile string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}

	root := &cobra.Command{
		Use:           "contextia-site",
		Short:         "Contextia marketing site and results dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	for _, c := range []*cobra.Command{root, serve} {
		f := c.Flags()
		f.IntVar(&opts.port, "port", 8080, "HTTP server port")
		f.IntVar(&opts.portAttempts, "port-attempts", 1, "Number of consecutive ports to try when the port is in use")
		f.StringVar(&opts.dataDir, "data-dir", "", "Directory for uploaded data and the activity log")
		f.StringVar(&opts.envFile, "env", ".env", "Environment file loaded before the process environment")
		f.StringVar(&opts.settingsFile, "settings", "", "YAML settings file (default ./"+config.DefaultSettingsFile+")")
	}

	root.AddCommand(serve, newVersionCmd(), newStatsCmd(), newExportCmd(), newSettingsCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Contextia site v%s\n", version)
		},
	}
}

func loadConfig(cmd *cobra.Command, opts *serveOptions) (config.Config, error) {
	envFile := opts.envFile
	if _, err := os.Stat(envFile); err != nil && !cmd.Flags().Changed("env") {
		// The default .env is optional
		envFile = ""
	}

	cfg, err := config.Load(envFile, opts.settingsFile)
	if err != nil {
		return cfg, err
	}
	cfg.Version = version

	if cmd.Flags().Changed("port") {
		cfg.Port = opts.port
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = opts.dataDir
		if os.Getenv("ACTIVITY_DB") == "" {
			cfg.ActivityDB = filepath.Join(cfg.DataDir, "activity.db")
		}
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Production)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	port, err := findAvailablePort(cfg.Port, opts.portAttempts)
	if err != nil {
		return err
	}
	if port != cfg.Port {
		logger.Warn("Port in use, using another", zap.Int("requested", cfg.Port), zap.Int("port", port))
		cfg.Port = port
	}

	logger.Info("Contextia site starting",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("production", cfg.Production))

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
