package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
	"bhangari/internal/adapter/api/middleware"
)

func SetupPickupRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	pickupHandler := handler.GetPickupHandler()

	pickups := e.Group("/v1/pickups")
	pickups.Use(authMiddleware.Authenticate)

	pickups.POST("", pickupHandler.CreatePickup)
	pickups.GET("", pickupHandler.ListHistory)
	pickups.GET("/summary", pickupHandler.Summary)
	pickups.GET("/:id", pickupHandler.GetPickup)
	pickups.GET("/:id/logs", pickupHandler.ListLogs)
	pickups.POST("/:id/cancel", pickupHandler.CancelPickup)
	pickups.POST("/:id/rating", pickupHandler.RateCollector)
}
