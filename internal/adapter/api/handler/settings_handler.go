package handler

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/usecase"
	"bhangari/pkg/response"
)

type SettingsHandler struct {
	settingsUseCase *usecase.SettingsUseCase
}

func NewSettingsHandler(settingsUseCase *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{
		settingsUseCase: settingsUseCase,
	}
}

type updateSettingsRequest struct {
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	SoundEnabled         *bool   `json:"sound_enabled"`
	AutoAcceptEnabled    *bool   `json:"auto_accept_enabled"`
	LocationEnabled      *bool   `json:"location_enabled"`
	Language             *string `json:"language" validate:"omitempty,oneof=bn en"`
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsUseCase.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, settings)
}

func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	settings, err := h.settingsUseCase.Update(c.Request().Context(), currentUserID(c), usecase.UpdateSettingsInput{
		NotificationsEnabled: req.NotificationsEnabled,
		SoundEnabled:         req.SoundEnabled,
		AutoAcceptEnabled:    req.AutoAcceptEnabled,
		LocationEnabled:      req.LocationEnabled,
		Language:             req.Language,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, settings)
}
