package models

// EmailSettings holds the SMTP configuration for notifications. There is a
// single row; use DefaultEmailSettings when it has never been saved.
type EmailSettings struct {
	SMTPHost             string `json:"smtp_host"`
	SMTPPort             int    `json:"smtp_port"`
	UseTLS               bool   `json:"use_tls"`
	UseSSL               bool   `json:"use_ssl"`
	Username             string `json:"username"`
	Password             string `json:"password,omitempty"`
	FromEmail            string `json:"from_email"`
	AdminEmail           string `json:"admin_email"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// DefaultEmailSettings returns the settings used before anything is saved
func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		SMTPPort:   587,
		UseTLS:     true,
		FromEmail:  "noreply@blaine.local",
		AdminEmail: "admin@blaine.local",
	}
}

// IsConfigured is true when the minimum SMTP fields are populated
func (s EmailSettings) IsConfigured() bool {
	return s.SMTPHost != "" && s.FromEmail != "" && s.AdminEmail != ""
}

// CanNotify is true only if notifications are enabled and SMTP is configured
func (s EmailSettings) CanNotify() bool {
	return s.NotificationsEnabled && s.IsConfigured()
}
