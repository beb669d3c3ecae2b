package email

import (
	"errors"
	"fmt"
	"log/slog"

	"seaview-backend/config"
)

// NewSender picks the mail transport named by MAIL_TRANSPORT
func NewSender(cfg *config.Config, log *slog.Logger) (Sender, error) {
	switch cfg.MailTransport {
	case "", "smtp":
		sender := NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		if !sender.IsConfigured() {
			return nil, errors.New("email: SMTP_HOST and SMTP_PORT are required for the smtp transport")
		}
		if port := cfg.SMTPPortInt(); port < 1 || port > 65535 {
			return nil, fmt.Errorf("email: SMTP_PORT %q is not a valid port", cfg.SMTPPort)
		}
		return sender, nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("email: RESEND_API_KEY is required for the resend transport")
		}
		return NewResendSender(cfg.ResendAPIKey), nil
	case "log":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("email: unknown MAIL_TRANSPORT %q", cfg.MailTransport)
	}
}
