package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATA_DIR", "APP_ENV", "LOG_LEVEL", "RESEND_API_KEY", "RESEND_BASE_URL",
		"CONTACT_EMAIL", "CONTACT_FROM", "DASHBOARD_PASSWORD", "SESSION_SECRET",
		"MAX_UPLOAD_BYTES", "ACTIVITY_DB", "PUBLIC_WHATSAPP", "PUBLIC_EMAIL", "PUBLIC_LINKEDIN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "https://api.resend.com", cfg.ResendBaseURL)
	assert.Equal(t, "onboarding@resend.dev", cfg.ContactFrom)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, filepath.Join("./data", "activity.db"), cfg.ActivityDB)
	assert.False(t, cfg.Production)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("APP_ENV", "production")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("CONTACT_EMAIL", "team@example.com")
	t.Setenv("DASHBOARD_PASSWORD", "hunter2")
	t.Setenv("PUBLIC_LINKEDIN", "contextia")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.True(t, cfg.Production)
	assert.Equal(t, "re_test", cfg.ResendAPIKey)
	assert.Equal(t, "team@example.com", cfg.ContactEmail)
	assert.Equal(t, "hunter2", cfg.DashboardPassword)
	assert.Equal(t, "contextia", cfg.Links.LinkedIn)
	assert.Equal(t, "/srv/data/test-results.json", cfg.TestResultsPath())
}

func TestLoadSettingsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, SaveSettings(path, Settings{
		DataDir:      "/var/lib/contextia",
		ContactEmail: "hello@example.com",
		Links:        Links{WhatsApp: "391234567"},
	}))

	t.Setenv("PUBLIC_WHATSAPP", "")
	t.Setenv("CONTACT_EMAIL", "override@example.com")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/contextia", cfg.DataDir)
	assert.Equal(t, "override@example.com", cfg.ContactEmail)
	assert.Equal(t, "391234567", cfg.Links.WhatsApp)
}

func TestLoadMissingExplicitSettings(t *testing.T) {
	clearEnv(t)
	_, err := Load("", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nDASHBOARD_PASSWORD=\"from-file\"\nPORT=7000\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Unset so the file value applies; t.Setenv restores on cleanup.
	os.Unsetenv("DASHBOARD_PASSWORD")
	os.Unsetenv("PORT")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.DashboardPassword)
	assert.Equal(t, 7000, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, DataDir: "data", MaxUploadBytes: 1}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Port = 70000
	assert.Error(t, bad.Validate())

	bad = valid
	bad.DataDir = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.MaxUploadBytes = 0
	assert.Error(t, bad.Validate())
}
