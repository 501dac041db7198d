// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tourbook/internal/core/apperror"
	"tourbook/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
// It runs outside ErrorHandler, so it renders the response itself.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
				)

				err := apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
					WithDetail("request_id", c.GetString("request_id"))
				_ = c.Error(err)
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(err.HTTPStatus, gin.H{
						"code":    err.Code,
						"message": err.Message,
						"details": err.Details,
					})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
