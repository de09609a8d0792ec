package router

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/adapter/api/handler"
)

// SetupPriceRouter registers the public catalog routes.
func SetupPriceRouter(e *echo.Echo) {
	priceHandler := handler.GetPriceHandler()
	pickupHandler := handler.GetPickupHandler()

	e.GET("/v1/prices", priceHandler.ListPrices)
	e.GET("/v1/prices/categories", priceHandler.ListCategories)
	e.GET("/v1/prices/materials", priceHandler.ListMaterials)
	e.GET("/v1/schedule/slots", priceHandler.ListSlots)
	e.GET("/v1/pickups/statuses", priceHandler.ListStatuses)
	e.POST("/v1/pickups/estimate", pickupHandler.Estimate)
}
