package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port              string
	DBDriver          string
	DBConn            string
	LogLevel          string
	LogFormat         string
	AuthSecret        string
	AuthPasswordHash  string
	CORSOrigins       []string
	Timezone          string
	ScheduleOverdue   string
	ScheduleReminders string
	ScheduleStale     string
}

// NewConfig loads configuration from environment variables, reading a .env
// file first when one exists
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBConn:            getEnv("DB_CONN", "control-center.db"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		AuthSecret:        getEnv("AUTH_SECRET", ""),
		AuthPasswordHash:  getEnv("AUTH_PASSWORD_HASH", ""),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		Timezone:          getEnv("TIMEZONE", "America/Chicago"),
		ScheduleOverdue:   getEnv("SCHEDULE_OVERDUE", "0 7 * * *"),
		ScheduleReminders: getEnv("SCHEDULE_REMINDERS", "0 * * * *"),
		ScheduleStale:     getEnv("SCHEDULE_STALE", "0 8 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required and dependent settings
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.AuthEnabled() && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required when AUTH_PASSWORD_HASH is set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// AuthEnabled reports whether the API requires a login
func (c *Config) AuthEnabled() bool {
	return c.AuthPasswordHash != ""
}

// Location returns the time zone used for "today"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
