package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tourbook/internal/core/apperror"
	appctx "tourbook/internal/core/context"
)

// SessionCookie is the name of the HttpOnly cookie carrying the admin session token.
const SessionCookie = "tourbook_session"

// SessionValidator validates a session token and returns the authenticated user.
type SessionValidator interface {
	Authenticate(token string) (*appctx.UserContext, error)
}

// Auth middleware validates the session token and populates user context.
// The token is read from the session cookie, falling back to a Bearer header.
func Auth(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			abortWith(c, err)
			return
		}

		user, err := validator.Authenticate(token)
		if err != nil {
			abortWith(c, apperror.NewUnauthorized("invalid or expired session"))
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set("username", user.Username)

		c.Next()
	}
}

// RequireRole middleware checks if user has one of the required roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortWith(c, apperror.NewUnauthorized("authentication required"))
			return
		}

		for _, required := range roles {
			for _, userRole := range user.Roles {
				if userRole == required {
					c.Next()
					return
				}
			}
		}
		abortWith(c, apperror.NewForbidden("insufficient permissions").
			WithDetail("required_roles", roles))
	}
}

func extractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperror.NewUnauthorized("authentication required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", apperror.NewUnauthorized("invalid authorization header format")
	}
	return parts[1], nil
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
