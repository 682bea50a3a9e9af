package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/lastmile-backend-go/internal/auth"
	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/handler"
	"github.com/jengzang/lastmile-backend-go/internal/middleware"
	"github.com/jengzang/lastmile-backend-go/internal/service"
)

// Dependencies are the services the router dispatches to
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Analytics   *service.AnalyticsService
	Exports     *service.ExportService
	Datasets    *service.DatasetService
	Issuer      *auth.Issuer
	RateLimiter *middleware.RateLimiter // optional
}

// SetupRouter wires the middleware chain and every route
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.Server.CORSOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Last mile delivery analytics API is running",
		})
	})

	deliveries := handler.NewDeliveryHandler(deps.Analytics)
	dashboard := handler.NewDashboardHandler(deps.Analytics)
	exports := handler.NewExportHandler(deps.Exports)
	datasets := handler.NewDatasetHandler(deps.Datasets)
	requireToken := middleware.Auth(deps.Issuer)

	api := r.Group("/api/v1")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	{
		api.GET("/filters", deliveries.GetFilterOptions)
		api.GET("/deliveries", deliveries.GetDeliveries)

		dash := api.Group("/dashboard")
		{
			dash.GET("", dashboard.GetDashboard)
			dash.GET("/kpis", dashboard.GetKPIs)
			dash.GET("/overview", dashboard.GetOverview)
			dash.GET("/agents", dashboard.GetAgents)
			dash.GET("/weather-traffic", dashboard.GetWeatherTraffic)
			dash.GET("/geographic", dashboard.GetGeographic)
			dash.GET("/recommendations", dashboard.GetRecommendations)
		}

		api.GET("/export", requireToken, exports.Download)
		api.GET("/exports", exports.ListExports)

		ds := api.Group("/dataset")
		{
			ds.GET("", datasets.GetStatus)
			ds.GET("/loads", datasets.ListLoads)
			ds.POST("/reload", requireToken, datasets.Reload)
		}
	}

	return r
}
