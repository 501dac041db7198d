package dto

import (
	"time"

	"tourbook/internal/domain/auth"
)

// LoginRequest for admin login.
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Username:   r.Username,
		Password:   r.Password,
		RememberMe: r.RememberMe,
	}
}

// SessionResponse describes the issued session. The token itself travels only in the cookie.
type SessionResponse struct {
	Username   string    `json:"username"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Persistent bool      `json:"persistent"`
}

// FromSession creates response DTO from domain session.
func FromSession(s *auth.Session) SessionResponse {
	return SessionResponse{
		Username:   s.Username,
		ExpiresAt:  s.ExpiresAt,
		Persistent: s.Persistent,
	}
}

// MeResponse describes the authenticated user.
type MeResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}
