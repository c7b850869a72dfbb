package notification

import (
	"context"
	"strings"

	"github.com/wneessen/go-mail"
)

// SMTPSender delivers notifications via SMTP using the go-mail library.
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender creates a new SMTPSender with the given configuration.
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

// Name returns the backend identifier.
func (p *SMTPSender) Name() string { return BackendSMTP }

// Send delivers msg using the configured SMTP server. Address and host
// problems are configuration errors; dial and protocol failures are reported
// in the SendResult.
func (p *SMTPSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	if strings.TrimSpace(p.config.Host) == "" {
		return SendResult{}, &ConfigError{Backend: BackendSMTP, Reason: "EMAIL_HOST is not set"}
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return SendResult{}, &ConfigError{Backend: BackendSMTP, Reason: "invalid from address: " + err.Error()}
	}
	if err := m.To(msg.To); err != nil {
		return SendResult{}, &ConfigError{Backend: BackendSMTP, Reason: "invalid recipient: " + err.Error()}
	}
	if msg.ReplyTo != "" {
		// The reply-to comes from the visitor; a malformed one is dropped, not fatal.
		_ = m.ReplyTo(msg.ReplyTo)
	}

	m.Subject(msg.Subject)

	// Plain-text fallback for clients that don't render HTML.
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if html, err := buildEmailHTML(msg.Subject, msg.Body); err == nil {
		m.AddAlternativeString(mail.TypeTextHTML, html)
	}

	opts := []mail.Option{
		mail.WithPort(p.config.Port),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(p.config.Encryption)),
	}
	if p.config.Encryption == "ssl_tls" {
		opts = append(opts, mail.WithSSL())
	}
	if p.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.config.Username),
			mail.WithPassword(p.config.Password),
		)
	}

	c, err := mail.NewClient(p.config.Host, opts...)
	if err != nil {
		return SendResult{}, &ConfigError{Backend: BackendSMTP, Reason: "creating mail client: " + err.Error()}
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return Failed(0, "smtp delivery to %s:%d failed: %v", p.config.Host, p.config.Port, err), nil
	}
	return SendResult{OK: true}, nil
}

// tlsPolicyFromEncryption converts the encryption string to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
