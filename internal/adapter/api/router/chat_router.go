package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
	"bhangari/internal/adapter/api/middleware"
)

// SetupChatRouter registers conversation routes. :userId is the other participant.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.GET("", chatHandler.ListConversations)
	conversations.GET("/:userId/messages", chatHandler.ListMessages)
	conversations.POST("/:userId/messages", chatHandler.SendMessage)
	conversations.PUT("/:userId/read", chatHandler.MarkRead)
}
