package email

import (
	"context"
	"log/slog"
	"strings"
)

// LogSender logs emails instead of sending them.
// Useful for development and testing.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a new log-based email sender.
func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

// Send logs the email details.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email (dev mode - not actually sent)",
		"from", msg.From.String(),
		"to", strings.Join(msg.To, ", "),
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"body", msg.TextBody,
	)
	return nil
}
