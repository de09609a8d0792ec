package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"bhangari/internal/domain/entity"
	"bhangari/internal/usecase"
	"bhangari/pkg/response"
	"bhangari/pkg/utils"
)

type CollectorHandler struct {
	pickupUseCase   *usecase.PickupUseCase
	earningsUseCase *usecase.EarningsUseCase
}

func NewCollectorHandler(pickupUseCase *usecase.PickupUseCase, earningsUseCase *usecase.EarningsUseCase) *CollectorHandler {
	return &CollectorHandler{
		pickupUseCase:   pickupUseCase,
		earningsUseCase: earningsUseCase,
	}
}

// transitionRequest is the optional body of every lifecycle action.
type transitionRequest struct {
	ExpectedStatus string   `json:"expected_status"`
	Reason         string   `json:"reason" validate:"max=500"`
	ActualEarnings *float64 `json:"actual_earnings" validate:"omitempty,gte=0"`
}

type transitionFunc func(ctx context.Context, actor usecase.Actor, id string, opts usecase.TransitionOptions) (*entity.PickupRequest, error)

func (h *CollectorHandler) transition(c echo.Context, fn transitionFunc) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	expected, err := parseExpectedStatus(req.ExpectedStatus)
	if err != nil {
		return response.Error(c, err)
	}

	updated, err := fn(c.Request().Context(), currentActor(c), c.Param("id"), usecase.TransitionOptions{
		ExpectedStatus: expected,
		Reason:         req.Reason,
		ActualEarnings: req.ActualEarnings,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

func (h *CollectorHandler) Accept(c echo.Context) error {
	return h.transition(c, h.pickupUseCase.Accept)
}

func (h *CollectorHandler) StartTrip(c echo.Context) error {
	return h.transition(c, h.pickupUseCase.StartTrip)
}

func (h *CollectorHandler) Arrive(c echo.Context) error {
	return h.transition(c, h.pickupUseCase.Arrive)
}

func (h *CollectorHandler) StartCollection(c echo.Context) error {
	return h.transition(c, h.pickupUseCase.StartCollection)
}

func (h *CollectorHandler) Complete(c echo.Context) error {
	return h.transition(c, h.pickupUseCase.Complete)
}

func (h *CollectorHandler) ListAvailable(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	requests, total, err := h.pickupUseCase.ListAvailable(c.Request().Context(), currentActor(c), params)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, requests, total, params.Page, params.PageSize)
}

func (h *CollectorHandler) ListAssigned(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	requests, total, err := h.pickupUseCase.ListAssigned(c.Request().Context(), currentActor(c), c.QueryParam("status"), params)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, requests, total, params.Page, params.PageSize)
}

func (h *CollectorHandler) Earnings(c echo.Context) error {
	summary, err := h.earningsUseCase.Earnings(c.Request().Context(), currentActor(c), c.QueryParam("filter"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}

func (h *CollectorHandler) Stats(c echo.Context) error {
	stats, err := h.earningsUseCase.Stats(c.Request().Context(), currentActor(c), c.QueryParam("period"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
