package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/control-center/internal/config"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/notifications"
	"github.com/Dan9191/control-center/internal/repository"
)

var (
	// ErrInvalidCredentials is returned by Login for a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthDisabled is returned by Login when no password is configured
	ErrAuthDisabled = errors.New("authentication is not enabled")
)

// ValidationError reports a rejected field value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

const tokenTTL = 24 * time.Hour

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	log      *logrus.Logger
	config   *config.Config
	notifier *notifications.Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, notifier *notifications.Notifier) *Service {
	loc, err := cfg.Location()
	if err != nil {
		log.Warnf("Falling back to UTC: %v", err)
		loc = time.UTC
	}
	return &Service{repo: repo, log: log, config: cfg, notifier: notifier, loc: loc, now: time.Now}
}

// WithClock overrides the clock used for "today" and default timestamps
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today returns the current calendar day in the configured time zone
func (s *Service) Today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

func (s *Service) timestamp() models.Timestamp {
	return models.NewTimestamp(s.now())
}

// Login checks the admin password and returns a signed JWT
func (s *Service) Login(password string) (string, error) {
	if !s.config.AuthEnabled() {
		return "", ErrAuthDisabled
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AuthPasswordHash), []byte(password)); err != nil {
		s.log.Warn("Rejected login attempt")
		return "", ErrInvalidCredentials
	}

	// Generate JWT; expiry is checked against the wall clock
	issued := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(tokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.AuthSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("Admin logged in")
	return tokenString, nil
}
