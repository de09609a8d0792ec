package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
	"bhangari/internal/adapter/api/middleware"
	"bhangari/internal/domain/entity"
)

func SetupCollectorRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	collectorHandler := handler.GetCollectorHandler()

	collector := e.Group("/v1/collector")
	collector.Use(authMiddleware.Authenticate)
	collector.Use(middleware.RequireRole(entity.RoleCollector))

	collector.GET("/pickups/available", collectorHandler.ListAvailable)
	collector.GET("/pickups", collectorHandler.ListAssigned)
	collector.POST("/pickups/:id/accept", collectorHandler.Accept)
	collector.POST("/pickups/:id/on-the-way", collectorHandler.StartTrip)
	collector.POST("/pickups/:id/arrive", collectorHandler.Arrive)
	collector.POST("/pickups/:id/start", collectorHandler.StartCollection)
	collector.POST("/pickups/:id/complete", collectorHandler.Complete)

	collector.GET("/earnings", collectorHandler.Earnings)
	collector.GET("/stats", collectorHandler.Stats)
}
