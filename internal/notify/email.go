package notify

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"medtrack-server/internal/config"
)

// mailSender is the slice of *gomail.Dialer used by SMTPMailer; tests
// substitute a fake.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends plain-text email through an SMTP relay with STARTTLS.
type SMTPMailer struct {
	enabled bool
	from    string
	sender  mailSender
}

// NewSMTPMailer creates a mailer from the email configuration.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		enabled: cfg.Enabled,
		from:    cfg.SenderEmail,
		sender:  gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPassword),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.enabled {
		slog.Info("email skipped", "subject", subject, "to", to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %q: %w", to, err)
	}
	slog.Info("email sent", "to", to)
	return nil
}
