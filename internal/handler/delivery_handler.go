package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/service"
	"github.com/jengzang/lastmile-backend-go/pkg/response"
)

// DeliveryHandler handles HTTP requests for the raw delivery records
type DeliveryHandler struct {
	analytics *service.AnalyticsService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(analytics *service.AnalyticsService) *DeliveryHandler {
	return &DeliveryHandler{analytics: analytics}
}

// GetFilterOptions handles GET /api/v1/filters
func (h *DeliveryHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.analytics.FilterOptions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, opts)
}

// GetDeliveries handles GET /api/v1/deliveries
func (h *DeliveryHandler) GetDeliveries(c *gin.Context) {
	f, ok := filterOrAbort(c)
	if !ok {
		return
	}

	var page models.PageFilter
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.analytics.Deliveries(c.Request.Context(), f, page)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}
