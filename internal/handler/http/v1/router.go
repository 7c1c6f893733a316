package v1

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Прием заявок, статусы и пространственные выборки
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/nearby", h.nearbyIncidents)
		incidents.GET("/within", h.withinIncidents)
		incidents.GET("/geojson", h.incidentsGeoJSON)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id/status", h.updateStatus)
	}

	// Зоны безопасности
	areas := api.Group("/security-areas")
	{
		areas.GET("", h.listAreas)
		areas.POST("", h.createArea)
		areas.GET("/nearest", h.nearestArea)
		areas.PATCH("/:id", h.updateArea)
	}

	api.GET("/stats", h.getStats)

	// Живая лента
	if h.live != nil {
		api.GET("/ws/incidents", h.liveFeed)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}

// NewRouter собирает gin с сжатием ответов, метриками и Swagger UI
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/ws", "/metrics"})))

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}
