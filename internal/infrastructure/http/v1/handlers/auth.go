package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourbook/internal/core/apperror"
	appctx "tourbook/internal/core/context"
	"tourbook/internal/domain/auth"
	"tourbook/internal/infrastructure/http/v1/dto"
	"tourbook/internal/infrastructure/http/v1/middleware"
)

// AuthHandler handles admin login, logout and session introspection.
type AuthHandler struct {
	*BaseHandler
	service      *auth.Service
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure (HTTPS only).
func NewAuthHandler(base *BaseHandler, service *auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		service:      service,
		secureCookie: secureCookie,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	// Persistent sessions get an explicit lifetime, others end with the browser
	maxAge := 0
	if session.Persistent {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	h.setSessionCookie(c, session.Token, maxAge)

	h.OK(c, dto.FromSession(session))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	h.Success(c, "logged out")
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}
	h.OK(c, dto.MeResponse{Username: user.Username, Roles: user.Roles})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}
