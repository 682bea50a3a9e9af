package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/service"
	"github.com/jengzang/lastmile-backend-go/pkg/response"
)

// DashboardHandler handles HTTP requests for the dashboard panels
type DashboardHandler struct {
	analytics *service.AnalyticsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analytics *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analytics: analytics}
}

// panel adapts one filtered analytics query into a handler
func panel[T any](query func(context.Context, models.DeliveryFilter) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := filterOrAbort(c)
		if !ok {
			return
		}
		data, err := query(c.Request.Context(), f)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, data)
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	panel(h.analytics.Dashboard)(c)
}

// GetKPIs handles GET /api/v1/dashboard/kpis
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	panel(h.analytics.KPIs)(c)
}

// GetOverview handles GET /api/v1/dashboard/overview
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	panel(h.analytics.Overview)(c)
}

// GetAgents handles GET /api/v1/dashboard/agents
func (h *DashboardHandler) GetAgents(c *gin.Context) {
	panel(h.analytics.Agents)(c)
}

// GetWeatherTraffic handles GET /api/v1/dashboard/weather-traffic
func (h *DashboardHandler) GetWeatherTraffic(c *gin.Context) {
	panel(h.analytics.WeatherTraffic)(c)
}

// GetGeographic handles GET /api/v1/dashboard/geographic
func (h *DashboardHandler) GetGeographic(c *gin.Context) {
	panel(h.analytics.Geographic)(c)
}

// GetRecommendations handles GET /api/v1/dashboard/recommendations
func (h *DashboardHandler) GetRecommendations(c *gin.Context) {
	panel(h.analytics.Recommendations)(c)
}
