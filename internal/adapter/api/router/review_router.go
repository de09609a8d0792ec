package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
)

func SetupReviewRouter(e *echo.Echo) {
	reviewHandler := handler.GetReviewHandler()

	// Public routes
	e.GET("/v1/collectors/:id/reviews", reviewHandler.ListCollectorReviews)
	e.GET("/v1/reviews/tags", reviewHandler.ListTags)
}
