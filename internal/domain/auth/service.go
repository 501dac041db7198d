// Package auth provides administrator authentication.
// A single administrator is configured by username and bcrypt password hash.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tourbook/internal/core/apperror"
	appctx "tourbook/internal/core/context"
	"tourbook/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	Username     string
	PasswordHash string

	// SessionTTL bounds a browser-session login
	SessionTTL time.Duration
	// RememberTTL is the lifetime of a "remember me" login
	RememberTTL time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig(username, passwordHash string) ServiceConfig {
	return ServiceConfig{
		Username:     username,
		PasswordHash: passwordHash,
		SessionTTL:   12 * time.Hour,
		RememberTTL:  7 * 24 * time.Hour, // 7 days
	}
}

// Service authenticates the administrator and issues sessions.
type Service struct {
	config     ServiceConfig
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(config ServiceConfig, jwtService *JWTService) *Service {
	return &Service{config: config, jwtService: jwtService}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks credentials and issues a session token carrying the admin role.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return nil, apperror.NewFieldValidation("username", "username is required")
	}
	if creds.Password == "" {
		return nil, apperror.NewFieldValidation("password", "password is required")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(creds.Password))
	if !userOK || passErr != nil {
		logger.Warn(ctx, "login failed", "username", username)
		return nil, apperror.NewUnauthorized("invalid username or password")
	}

	ttl := s.config.SessionTTL
	if creds.RememberMe {
		ttl = s.config.RememberTTL
	}

	token, expiresAt, err := s.jwtService.GenerateToken(username, []string{appctx.RoleAdmin}, uuid.NewString(), ttl)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "admin logged in", "username", username, "remember", creds.RememberMe)
	return &Session{
		Token:      token,
		Username:   username,
		ExpiresAt:  expiresAt,
		Persistent: creds.RememberMe,
	}, nil
}

// Authenticate validates a session token.
func (s *Service) Authenticate(token string) (*appctx.UserContext, error) {
	user, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired session").WithCause(err)
	}
	return user, nil
}
