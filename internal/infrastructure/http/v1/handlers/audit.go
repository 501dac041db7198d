package handlers

import (
	"github.com/gin-gonic/gin"

	"tourbook/internal/domain/audit"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// AuditHandler serves entity operation histories.
type AuditHandler struct {
	*BaseHandler
	service *audit.HistoryService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, service *audit.HistoryService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// EntityHistory returns the handler for GET /<entities>/:id/history.
func (h *AuditHandler) EntityHistory(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID, ok := h.ParseID(c, "id")
		if !ok {
			return
		}

		limit := h.ParseIntQuery(c, "limit", audit.DefaultHistoryLimit)
		entries, err := h.service.ForEntity(c.Request.Context(), entityType, entityID, limit)
		if err != nil {
			h.Error(c, err)
			return
		}

		h.OK(c, dto.AuditHistoryResponse{Items: entries})
	}
}
