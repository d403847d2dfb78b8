package mail

import (
	"context"
	"fmt"

	"meetgrid/core/config"
	"meetgrid/core/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid mailer when an API key is configured and a log-only
// mailer otherwise.
func New(cfg config.MailConfig) Mailer {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("Mail:New:SendGridDisabled", "reason", "SENDGRID_API_KEY not set")
		return LogMailer{}
	}
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(msg.ToName, msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		logger.Error("SendGridMailer:Send", "to", msg.To, "error", err)
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("SendGridMailer:Send:APIError", "to", msg.To, "status", resp.StatusCode, "body", resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	logger.Info("SendGridMailer:Send:Success", "to", msg.To, "subject", msg.Subject, "status", resp.StatusCode)
	return nil
}

// LogMailer stands in for delivery when no provider is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	logger.Info("LogMailer:Send", "to", msg.To, "subject", msg.Subject)
	return nil
}
