// Package notification turns a contact submission into an email delivered to
// the site operator. Senders report ordinary delivery failures as data in a
// SendResult and only return an error when they are misconfigured.
package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is the content to be delivered by a Sender.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// SendResult describes the outcome of one delivery attempt.
type SendResult struct {
	OK bool `json:"ok" yaml:"ok"`
	// StatusCode is the provider's HTTP status. Zero when the transport has none.
	StatusCode  int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
}

// Failed builds a SendResult for a delivery failure.
func Failed(statusCode int, format string, args ...any) SendResult {
	return SendResult{StatusCode: statusCode, ErrorDetail: fmt.Sprintf(format, args...)}
}

// Sender is the interface for notification delivery backends.
type Sender interface {
	// Name returns the backend identifier (e.g. "sendgrid").
	Name() string
	// Send delivers msg. The returned error is non-nil only for misconfiguration
	// and is always a *ConfigError.
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// ConfigError reports a Sender that cannot attempt delivery because of its configuration.
type ConfigError struct {
	Backend string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: misconfigured: %s", e.Backend, e.Reason)
}

// Backend identifiers accepted by NewSender.
const (
	BackendSendGrid = "sendgrid"
	BackendSMTP     = "smtp"
	BackendConsole  = "console"
)

// NewSender returns the Sender selected by cfg.Backend.
// Missing credentials are not checked here; they surface as a *ConfigError
// from Send so that submissions are still accepted and stored.
func NewSender(cfg Config, logger *slog.Logger) (Sender, error) {
	switch cfg.Backend {
	case BackendSendGrid, "":
		return NewSendGridSender(cfg.SendGrid, logger), nil
	case BackendSMTP:
		return NewSMTPSender(cfg.SMTP), nil
	case BackendConsole:
		return NewConsoleSender(logger), nil
	}
	return nil, fmt.Errorf("unknown email backend %q (want sendgrid, smtp or console)", cfg.Backend)
}
