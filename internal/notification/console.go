package notification

import (
	"context"
	"log/slog"
)

// ConsoleSender is the local transport: it writes the message to the logger
// instead of delivering it. Useful in development and for dry runs.
type ConsoleSender struct {
	logger *slog.Logger
}

// NewConsoleSender creates a ConsoleSender writing to logger.
func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Name returns the backend identifier.
func (c *ConsoleSender) Name() string { return BackendConsole }

// Send logs msg and always reports success.
func (c *ConsoleSender) Send(_ context.Context, msg Message) (SendResult, error) {
	c.logger.Info("email (console backend)",
		"from", msg.From,
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return SendResult{OK: true}, nil
}
