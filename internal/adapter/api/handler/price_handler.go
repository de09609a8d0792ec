package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"bhangari/internal/domain/pickup"
	"bhangari/internal/usecase"
	"bhangari/pkg/response"
	"bhangari/pkg/utils"
)

// PriceHandler serves the static catalog: prices, materials and pickup slots.
type PriceHandler struct {
	priceUseCase *usecase.PriceUseCase
	location     *time.Location
	now          func() time.Time
}

func NewPriceHandler(priceUseCase *usecase.PriceUseCase, location *time.Location) *PriceHandler {
	if location == nil {
		location = time.UTC
	}
	return &PriceHandler{
		priceUseCase: priceUseCase,
		location:     location,
		now:          time.Now,
	}
}

func (h *PriceHandler) ListCategories(c echo.Context) error {
	return response.Success(c, h.priceUseCase.ListCategories())
}

func (h *PriceHandler) ListPrices(c echo.Context) error {
	items, err := h.priceUseCase.ListItems(c.QueryParam("category"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *PriceHandler) ListMaterials(c echo.Context) error {
	return response.Success(c, h.priceUseCase.Materials())
}

type statusInfo struct {
	Status   pickup.Status `json:"status"`
	Label    string        `json:"label"`
	Terminal bool          `json:"terminal"`
}

// ListSlots returns the bookable dates, starting today, and the time slots.
func (h *PriceHandler) ListSlots(c echo.Context) error {
	return response.Success(c, map[string]interface{}{
		"dates":      utils.UpcomingDates(h.now().In(h.location), utils.ScheduleWindowDays),
		"time_slots": utils.TimeSlots(),
	})
}

// ListStatuses describes the pickup lifecycle for clients.
func (h *PriceHandler) ListStatuses(c echo.Context) error {
	statuses := make([]statusInfo, 0, len(pickup.Statuses()))
	for _, s := range pickup.Statuses() {
		statuses = append(statuses, statusInfo{Status: s, Label: pickup.Label(s), Terminal: pickup.IsTerminal(s)})
	}
	return response.Success(c, map[string]interface{}{
		"statuses":    statuses,
		"transitions": pickup.Transitions(),
	})
}
