package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/smdata-dev/smdata/internal/notification"
)

// AppConfig holds all application-level configuration loaded from environment variables.
// It is built once at startup and passed explicitly into the components that need it.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8000.
	Port int `envconfig:"PORT" default:"8000"`

	// DataDir is the root data directory. Defaults to ~/.smdata.
	DataDir string `envconfig:"SMDATA_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogVerbose adds request and mail-backend diagnostics to the contact flow logs.
	LogVerbose bool `envconfig:"LOG_VERBOSE" default:"false"`

	// LogStdout mirrors the system log to stdout in addition to the log file.
	LogStdout bool `envconfig:"LOG_STDOUT" default:"false"`

	// DatabaseURL selects Postgres when it carries a postgres:// or postgresql:// scheme.
	// Empty means SQLite at <DataDir>/smdata.db.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// SiteName appears in the body of every contact notification.
	SiteName string `envconfig:"SITE_NAME" default:"smdata.dev"`

	// ContactRecipient is the operator inbox that receives contact notifications.
	ContactRecipient string `envconfig:"CONTACT_RECIPIENT" default:"info@smdata.dev"`

	// FromEmail is the envelope sender for outgoing notifications.
	FromEmail string `envconfig:"DEFAULT_FROM_EMAIL" default:"info@smdata.dev"`

	// EmailBackend is one of sendgrid, smtp or console.
	EmailBackend string `envconfig:"EMAIL_BACKEND" default:"sendgrid"`

	SendGridAPIKey      string `envconfig:"SENDGRID_API_KEY"`
	SendGridEUResidency bool   `envconfig:"SENDGRID_EU_RESIDENCY" default:"false"`
	SendGridAPIHost     string `envconfig:"SENDGRID_API_HOST"`

	SMTPHost       string `envconfig:"EMAIL_HOST"`
	SMTPPort       int    `envconfig:"EMAIL_PORT" default:"587"`
	SMTPUsername   string `envconfig:"EMAIL_HOST_USER"`
	SMTPPassword   string `envconfig:"EMAIL_HOST_PASSWORD"`
	SMTPEncryption string `envconfig:"EMAIL_ENCRYPTION" default:"starttls"`

	// NotifyTimeout bounds a single notification attempt.
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"15s"`

	// PhoneRegion is the ISO 3166 region used to read phone numbers written without a country code.
	PhoneRegion string `envconfig:"PHONE_DEFAULT_REGION"`

	// CORSAllowedOrigins lists origins allowed to post the contact form cross-site.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables trace export.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads AppConfig from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".smdata")
	}

	c.EmailBackend = strings.ToLower(strings.TrimSpace(c.EmailBackend))

	// Older deployments kept the SendGrid key in EMAIL_HOST_PASSWORD.
	// An empty backend selects SendGrid.
	if c.SendGridAPIKey == "" && (c.EmailBackend == "" || c.EmailBackend == "sendgrid") {
		c.SendGridAPIKey = c.SMTPPassword
	}

	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory (~/.smdata/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// SQLitePath returns the path to the SQLite database file.
func (c *AppConfig) SQLitePath() string {
	return filepath.Join(c.DataDir, "smdata.db")
}

// UsesPostgres reports whether DatabaseURL points at a Postgres server.
func (c *AppConfig) UsesPostgres() bool {
	u := strings.ToLower(c.DatabaseURL)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// NotificationConfig assembles the sender configuration for the selected backend.
func (c *AppConfig) NotificationConfig() notification.Config {
	return notification.Config{
		Backend:   c.EmailBackend,
		FromAddr:  c.FromEmail,
		Recipient: c.ContactRecipient,
		SendGrid: notification.SendGridConfig{
			APIKey:          c.SendGridAPIKey,
			EUDataResidency: c.SendGridEUResidency,
			APIHost:         c.SendGridAPIHost,
		},
		SMTP: notification.SMTPConfig{
			Host:       c.SMTPHost,
			Port:       c.SMTPPort,
			Username:   c.SMTPUsername,
			Password:   c.SMTPPassword,
			Encryption: c.SMTPEncryption,
		},
	}
}
