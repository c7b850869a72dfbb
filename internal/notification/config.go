package notification

// Config selects and configures the notification backend.
type Config struct {
	// Backend is one of BackendSendGrid, BackendSMTP or BackendConsole.
	Backend string
	// FromAddr is the envelope sender of every notification.
	FromAddr string
	// Recipient is the operator inbox.
	Recipient string

	SendGrid SendGridConfig
	SMTP     SMTPConfig
}

// SendGridConfig holds credentials and routing for the SendGrid v3 API.
type SendGridConfig struct {
	APIKey string
	// EUDataResidency routes requests through SendGrid's EU regional API host.
	EUDataResidency bool
	// APIHost overrides the API host (scheme and host, no path).
	APIHost string
}

// SMTPConfig holds connection parameters for the SMTP sender.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string // "none", "starttls", "ssl_tls"
}
