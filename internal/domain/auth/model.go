package auth

import "time"

// Credentials are submitted on login.
type Credentials struct {
	Username   string
	Password   string
	RememberMe bool
}

// Session is an issued admin session.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time

	// Persistent sessions survive a browser restart ("remember me")
	Persistent bool
}
