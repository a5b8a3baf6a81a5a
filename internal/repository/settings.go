package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

// LoadEmailSettings returns the stored SMTP settings, or the defaults when
// nothing has been saved yet
func (r *Repository) LoadEmailSettings(ctx context.Context) (models.EmailSettings, error) {
	query := `
		SELECT smtp_host, smtp_port, use_tls, use_ssl, username, password, from_email, admin_email,
			notifications_enabled
		FROM email_settings
		WHERE id = 1`
	var s models.EmailSettings
	err := r.db.QueryRowContext(ctx, query).Scan(&s.SMTPHost, &s.SMTPPort, &s.UseTLS, &s.UseSSL, &s.Username,
		&s.Password, &s.FromEmail, &s.AdminEmail, &s.NotificationsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultEmailSettings(), nil
	}
	if err != nil {
		return models.EmailSettings{}, fmt.Errorf("failed to load email settings: %w", err)
	}
	return s, nil
}

// SaveEmailSettings writes the single settings row
func (r *Repository) SaveEmailSettings(ctx context.Context, s models.EmailSettings) error {
	query := `
		INSERT INTO email_settings (id, smtp_host, smtp_port, use_tls, use_ssl, username, password, from_email,
			admin_email, notifications_enabled)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			smtp_host = excluded.smtp_host,
			smtp_port = excluded.smtp_port,
			use_tls = excluded.use_tls,
			use_ssl = excluded.use_ssl,
			username = excluded.username,
			password = excluded.password,
			from_email = excluded.from_email,
			admin_email = excluded.admin_email,
			notifications_enabled = excluded.notifications_enabled`
	_, err := r.db.ExecContext(ctx, query, s.SMTPHost, s.SMTPPort, s.UseTLS, s.UseSSL, s.Username, s.Password,
		s.FromEmail, s.AdminEmail, s.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("failed to save email settings: %w", err)
	}
	return nil
}
