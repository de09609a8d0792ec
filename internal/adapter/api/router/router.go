package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
	"bhangari/internal/adapter/api/middleware"
	"bhangari/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter, wsHandler *handler.WebSocketHandler) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupPriceRouter(e)
	SetupPickupRouter(e, authMiddleware)
	SetupCollectorRouter(e, authMiddleware)
	SetupReviewRouter(e)
	SetupChatRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupUploadRouter(e, authMiddleware, limiter)
	SetupWebSocketRouter(e, wsHandler, authMiddleware)
}
