package notification

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridGlobalHost = "https://api.sendgrid.com"
	sendGridEUHost     = "https://api.eu.sendgrid.com"
	sendGridMailPath   = "/v3/mail/send"

	// maxErrorBody caps how much of a provider error body is kept in ErrorDetail.
	maxErrorBody = 512
)

// SendGridSender delivers notifications through the SendGrid v3 HTTP API.
type SendGridSender struct {
	config SendGridConfig
	logger *slog.Logger
}

// NewSendGridSender creates a new SendGridSender.
func NewSendGridSender(config SendGridConfig, logger *slog.Logger) *SendGridSender {
	return &SendGridSender{config: config, logger: logger}
}

// Name returns the backend identifier.
func (s *SendGridSender) Name() string { return BackendSendGrid }

// Endpoint returns the mail-send URL requests are posted to. With EU data
// residency enabled this is the EU regional host; APIHost overrides both.
func (s *SendGridSender) Endpoint() string {
	host := s.config.APIHost
	if host == "" {
		host = sendGridGlobalHost
		if s.config.EUDataResidency {
			host = sendGridEUHost
		}
	}
	return strings.TrimRight(host, "/") + sendGridMailPath
}

// Send posts msg to the SendGrid mail-send endpoint.
func (s *SendGridSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	if strings.TrimSpace(s.config.APIKey) == "" {
		return SendResult{}, &ConfigError{Backend: BackendSendGrid, Reason: "SENDGRID_API_KEY is not set"}
	}

	html, err := buildEmailHTML(msg.Subject, msg.Body)
	if err != nil {
		html = ""
	}
	m := sgmail.NewSingleEmail(
		sgmail.NewEmail("", msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Body,
		html,
	)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	client := sendgrid.NewSendClient(s.config.APIKey)
	client.BaseURL = s.Endpoint()

	s.logger.Debug("sending via sendgrid",
		"endpoint", client.BaseURL,
		"eu_data_residency", s.config.EUDataResidency,
	)

	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		return Failed(code, "sendgrid request failed: %v", err), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failed(resp.StatusCode, "sendgrid returned status %d: %s",
			resp.StatusCode, truncate(resp.Body, maxErrorBody)), nil
	}
	return SendResult{OK: true, StatusCode: resp.StatusCode}, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
