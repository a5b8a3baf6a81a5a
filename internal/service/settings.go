package service

import (
	"context"
	"strings"

	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/notifications"
)

const notificationLogLimit = 50

// GetEmailSettings returns the saved settings without the SMTP password
func (s *Service) GetEmailSettings(ctx context.Context) (models.EmailSettings, error) {
	settings, err := s.repo.LoadEmailSettings(ctx)
	if err != nil {
		return models.EmailSettings{}, err
	}
	settings.Password = ""
	return settings, nil
}

// SaveEmailSettings validates and stores the SMTP settings. A blank password
// keeps the one already stored.
func (s *Service) SaveEmailSettings(ctx context.Context, settings models.EmailSettings) (models.EmailSettings, error) {
	settings.SMTPHost = strings.TrimSpace(settings.SMTPHost)
	settings.FromEmail = strings.TrimSpace(settings.FromEmail)
	settings.AdminEmail = strings.TrimSpace(settings.AdminEmail)
	if settings.UseTLS && settings.UseSSL {
		return models.EmailSettings{}, invalid("use_ssl", "TLS and SSL cannot both be enabled")
	}
	if settings.SMTPPort < 0 || settings.SMTPPort > 65535 {
		return models.EmailSettings{}, invalid("smtp_port", "must be between 0 and 65535")
	}
	if settings.SMTPPort == 0 {
		settings.SMTPPort = models.DefaultEmailSettings().SMTPPort
	}

	if settings.Password == "" {
		current, err := s.repo.LoadEmailSettings(ctx)
		if err != nil {
			return models.EmailSettings{}, err
		}
		settings.Password = current.Password
	}
	if err := s.repo.SaveEmailSettings(ctx, settings); err != nil {
		return models.EmailSettings{}, err
	}
	s.log.Info("Email settings saved")

	settings.Password = ""
	return settings, nil
}

// SendTestEmail sends the fixed test message to the admin address
func (s *Service) SendTestEmail(ctx context.Context) (string, error) {
	settings, err := s.repo.LoadEmailSettings(ctx)
	if err != nil {
		return "", err
	}
	return s.notifier.SendTest(settings)
}

// RunNotification runs one notification check immediately
func (s *Service) RunNotification(ctx context.Context, job string) (notifications.Result, error) {
	valid := false
	for _, name := range notifications.Jobs {
		valid = valid || name == job
	}
	if !valid {
		return notifications.Result{}, invalid("job", "unknown notification job %q", job)
	}
	settings, err := s.repo.LoadEmailSettings(ctx)
	if err != nil {
		return notifications.Result{}, err
	}
	return s.notifier.Run(ctx, job, settings)
}

// ListNotificationLogs returns the latest dispatch records, optionally for one job
func (s *Service) ListNotificationLogs(ctx context.Context, job string) ([]models.NotificationLog, error) {
	return s.repo.ListNotificationLogs(ctx, job, notificationLogLimit)
}
