package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
	"bhangari/internal/adapter/api/middleware"
	"bhangari/internal/infrastructure/ratelimit"
)

func SetupUploadRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	uploadHandler := handler.GetUploadHandler()

	uploads := e.Group("/v1/uploads")
	uploads.Use(authMiddleware.Authenticate)

	uploads.POST("/pickup-images", uploadHandler.UploadPickupImage, middleware.RateLimit(limiter, "upload"))
	uploads.DELETE("/pickup-images/:id", uploadHandler.DeletePickupImage)
}
