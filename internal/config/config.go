package config

import (
	"fmt"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Port    int
	DataDir string
	Version string

	// Production enables secure cookies and JSON logging
	Production bool
	LogLevel   string

	// Contact relay
	ResendAPIKey  string
	ResendBaseURL string
	ContactEmail  string
	ContactFrom   string

	// Dashboard gate
	DashboardPassword string
	SessionSecret     string

	MaxUploadBytes int64
	ActivityDB     string

	Links Links
}

// Links are the public contact links shown on the landing page
type Links struct {
	WhatsApp string `yaml:"whatsapp" json:"whatsapp"`
	Email    string `yaml:"email" json:"email"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
}

const (
	defaultPort           = 8080
	defaultDataDir        = "./data"
	defaultResendBaseURL  = "https://api.resend.com"
	defaultContactFrom    = "onboarding@resend.dev"
	defaultMaxUploadBytes = 10 << 20
)

// Load builds the configuration from an optional .env file, an optional YAML
// settings file and the process environment, in increasing precedence.
func Load(envFile, settingsPath string) (Config, error) {
	if envFile != "" {
		if err := loadDotEnv(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              getEnvInt("PORT", defaultPort),
		DataDir:           getEnv("DATA_DIR", firstNonEmpty(settings.DataDir, defaultDataDir)),
		Production:        getEnv("APP_ENV", "") == "production",
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		ResendBaseURL:     getEnv("RESEND_BASE_URL", defaultResendBaseURL),
		ContactEmail:      getEnv("CONTACT_EMAIL", settings.ContactEmail),
		ContactFrom:       getEnv("CONTACT_FROM", firstNonEmpty(settings.ContactFrom, defaultContactFrom)),
		DashboardPassword: getEnv("DASHBOARD_PASSWORD", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		Links: Links{
			WhatsApp: getEnv("PUBLIC_WHATSAPP", settings.Links.WhatsApp),
			Email:    getEnv("PUBLIC_EMAIL", settings.Links.Email),
			LinkedIn: getEnv("PUBLIC_LINKEDIN", settings.Links.LinkedIn),
		},
	}
	cfg.ActivityDB = getEnv("ACTIVITY_DB", filepath.Join(cfg.DataDir, "activity.db"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would make the server unusable. Missing
// credentials are not errors: the affected endpoints report them per request.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid upload limit %d", c.MaxUploadBytes)
	}
	return nil
}

// TestResultsPath is the fixed location of the uploaded dashboard data
func (c Config) TestResultsPath() string {
	return filepath.Join(c.DataDir, "test-results.json")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
