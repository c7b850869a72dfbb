package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_DirectoryPaths(t *testing.T) {
	c := &AppConfig{DataDir: "/data"}

	tests := []struct {
		name string
		fn   func() string
		want string
	}{
		{"LogDir", c.LogDir, "/data/logs"},
		{"SQLitePath", c.SQLitePath, "/data/smdata.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn())
		})
	}
}

func TestAppConfig_UsesPostgres(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"postgres://u:p@localhost:5432/smdata", true},
		{"postgresql://localhost/smdata?sslmode=disable", true},
		{"POSTGRES://localhost/smdata", true},
		{"file:/tmp/smdata.db", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c := &AppConfig{DatabaseURL: tt.url}
			assert.Equal(t, tt.want, c.UsesPostgres())
		})
	}
}

func clearEmailEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SENDGRID_API_KEY", "SENDGRID_API_HOST",
		"EMAIL_HOST", "EMAIL_HOST_USER", "EMAIL_HOST_PASSWORD", "EMAIL_BACKEND",
		"CONTACT_RECIPIENT", "DEFAULT_FROM_EMAIL", "NOTIFY_TIMEOUT", "DATABASE_URL",
		"SENDGRID_EU_RESIDENCY", "EMAIL_PORT", "PORT", "CORS_ALLOWED_ORIGINS",
	} {
		// t.Setenv restores the original value on cleanup; unsetting lets envconfig apply defaults.
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	clearEmailEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SMDATA_DATA_DIR", "/tmp/test-smdata")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EMAIL_BACKEND", "SMTP")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://smdata.dev,https://www.smdata.dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test-smdata", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "smtp", cfg.EmailBackend)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, []string{"https://smdata.dev", "https://www.smdata.dev"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Defaults(t *testing.T) {
	clearEmailEnv(t)
	t.Setenv("SMDATA_DATA_DIR", "/tmp/test-smdata")
	t.Setenv("EMAIL_BACKEND", "sendgrid")
	t.Setenv("NOTIFY_TIMEOUT", "15s")
	t.Setenv("CONTACT_RECIPIENT", "info@smdata.dev")
	t.Setenv("DEFAULT_FROM_EMAIL", "info@smdata.dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sendgrid", cfg.EmailBackend)
	assert.Equal(t, "info@smdata.dev", cfg.ContactRecipient)
	assert.Equal(t, "info@smdata.dev", cfg.FromEmail)
	assert.Equal(t, 15*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_SendGridKeyFallsBackToHostPassword(t *testing.T) {
	clearEmailEnv(t)
	t.Setenv("SMDATA_DATA_DIR", "/tmp/test-smdata")
	t.Setenv("EMAIL_BACKEND", "sendgrid")
	t.Setenv("EMAIL_HOST_PASSWORD", "SG.legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "SG.legacy", cfg.SendGridAPIKey)
}

func TestLoad_SendGridKeyFallbackWithBlankBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
	}{
		{"empty", ""},
		{"padded upper case", "  SendGrid "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEmailEnv(t)
			t.Setenv("SMDATA_DATA_DIR", "/tmp/test-smdata")
			t.Setenv("EMAIL_BACKEND", tt.backend)
			t.Setenv("EMAIL_HOST_PASSWORD", "SG.legacy")

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, "SG.legacy", cfg.SendGridAPIKey)
		})
	}
}

func TestLoad_NoFallbackForSMTP(t *testing.T) {
	clearEmailEnv(t)
	t.Setenv("SMDATA_DATA_DIR", "/tmp/test-smdata")
	t.Setenv("EMAIL_BACKEND", "smtp")
	t.Setenv("EMAIL_HOST_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SendGridAPIKey)
}

func TestLoad_SendGridKeyTakesPriority(t *testing.T) {
	clearEmailEnv(t)
	t.Setenv("SMDATA_DATA_DIR", "/tmp/test-smdata")
	t.Setenv("EMAIL_BACKEND", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "SG.primary")
	t.Setenv("EMAIL_HOST_PASSWORD", "SG.legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "SG.primary", cfg.SendGridAPIKey)
}

func TestAppConfig_NotificationConfig(t *testing.T) {
	c := &AppConfig{
		EmailBackend:        "sendgrid",
		FromEmail:           "noreply@smdata.dev",
		ContactRecipient:    "info@smdata.dev",
		SendGridAPIKey:      "SG.key",
		SendGridEUResidency: true,
		SMTPHost:            "smtp.example.com",
		SMTPPort:            465,
		SMTPEncryption:      "ssl_tls",
	}

	nc := c.NotificationConfig()
	assert.Equal(t, "sendgrid", nc.Backend)
	assert.Equal(t, "noreply@smdata.dev", nc.FromAddr)
	assert.Equal(t, "info@smdata.dev", nc.Recipient)
	assert.Equal(t, "SG.key", nc.SendGrid.APIKey)
	assert.True(t, nc.SendGrid.EUDataResidency)
	assert.Equal(t, "smtp.example.com", nc.SMTP.Host)
	assert.Equal(t, 465, nc.SMTP.Port)
	assert.Equal(t, "ssl_tls", nc.SMTP.Encryption)
}
