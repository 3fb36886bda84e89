package service

import (
	"fmt"

	"aral_lms_backend/internal/config"
	"aral_lms_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer sends transactional mail. Disabled deployments (local dev, tests)
// log the message instead of sending it.
type Mailer interface {
	Send(toName, toEmail, subject, plainText, htmlBody string) error
}

type SendgridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	enabled   bool
}

func NewSendgridMailer(cfg *config.Config) *SendgridMailer {
	m := &SendgridMailer{
		fromName:  cfg.Mail.FromName,
		fromEmail: cfg.Mail.FromEmail,
		enabled:   cfg.Mail.Enabled && cfg.Mail.SendgridKey != "",
	}
	if m.enabled {
		m.client = sendgrid.NewSendClient(cfg.Mail.SendgridKey)
	}
	return m
}

func (m *SendgridMailer) Send(toName, toEmail, subject, plainText, htmlBody string) error {
	if !m.enabled {
		logger.Log.Info("mail disabled, skipping send",
			zap.String("to", toEmail),
			zap.String("subject", subject))
		return nil
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)

	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
