package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/control-center/internal/models"
)

// Sender handles sending emails via SMTP using settings supplied per call
type Sender struct {
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

// Message builds the plain text email sent to the admin address
func Message(settings models.EmailSettings, subject, body string) *email.Email {
	e := email.NewEmail()
	e.From = settings.FromEmail
	e.To = []string{settings.AdminEmail}
	e.Subject = subject
	e.Text = []byte(body)
	return e
}

// Send delivers a plain text message to the configured admin address.
// use_ssl dials TLS directly, use_tls upgrades with STARTTLS.
func (s *Sender) Send(settings models.EmailSettings, subject, body string) error {
	if !settings.IsConfigured() {
		return fmt.Errorf("smtp is not configured")
	}
	e := Message(settings, subject, body)

	addr := fmt.Sprintf("%s:%d", settings.SMTPHost, settings.SMTPPort)
	var auth smtp.Auth
	if settings.Username != "" {
		auth = smtp.PlainAuth("", settings.Username, settings.Password, settings.SMTPHost)
	}
	tlsConfig := &tls.Config{ServerName: settings.SMTPHost, MinVersion: tls.VersionTLS12}

	var err error
	switch {
	case settings.UseSSL:
		err = e.SendWithTLS(addr, auth, tlsConfig)
	case settings.UseTLS:
		err = e.SendWithStartTLS(addr, auth, tlsConfig)
	default:
		err = e.Send(addr, auth)
	}
	if err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", settings.AdminEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", settings.AdminEmail, subject)
	return nil
}
