package handlers

import (
	"github.com/gin-gonic/gin"

	"tourbook/internal/domain/pricing"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// ToolsHandler exposes the pricing calculators.
type ToolsHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(base *BaseHandler, service *pricing.Service) *ToolsHandler {
	return &ToolsHandler{BaseHandler: base, service: service}
}

// Discount handles POST /tools/discount.
func (h *ToolsHandler) Discount(c *gin.Context) {
	var req dto.DiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Discount(c.Request.Context(), req.Price, req.Percent)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// TotalValue handles POST /tools/total-value.
func (h *ToolsHandler) TotalValue(c *gin.Context) {
	var req dto.TotalValueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	total, err := h.service.Total(c.Request.Context(), req.Days, req.DailyRate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TotalValueResponse{Days: req.Days, DailyRate: req.DailyRate, Total: total})
}
