package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	ws "bhangari/internal/infrastructure/websocket"
	"bhangari/pkg/response"
)

type HealthHandler struct {
	wsManager *ws.Manager
	startedAt time.Time
}

var healthHandler *HealthHandler

func NewHealthHandler(wsManager *ws.Manager) *HealthHandler {
	return &HealthHandler{
		wsManager: wsManager,
		startedAt: time.Now(),
	}
}

func SetupHealthHandler(wsManager *ws.Manager) {
	healthHandler = NewHealthHandler(wsManager)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	data := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.wsManager != nil {
		data["websocket_connections"] = h.wsManager.ConnectionCount()
	}
	return response.Success(c, data)
}
