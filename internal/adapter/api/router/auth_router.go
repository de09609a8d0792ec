package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
	"bhangari/internal/adapter/api/middleware"
	"bhangari/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.Use(middleware.RateLimit(limiter, "auth"))

	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/oauth", authHandler.OAuth)
	auth.POST("/refresh", authHandler.RefreshToken)
}
