package handler

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/domain/pickup"
	"bhangari/internal/usecase"
	"bhangari/pkg/errors"
	"bhangari/pkg/response"
	"bhangari/pkg/utils"
)

type PickupHandler struct {
	pickupUseCase   *usecase.PickupUseCase
	reviewUseCase   *usecase.ReviewUseCase
	earningsUseCase *usecase.EarningsUseCase
}

func NewPickupHandler(pickupUseCase *usecase.PickupUseCase, reviewUseCase *usecase.ReviewUseCase, earningsUseCase *usecase.EarningsUseCase) *PickupHandler {
	return &PickupHandler{
		pickupUseCase:   pickupUseCase,
		reviewUseCase:   reviewUseCase,
		earningsUseCase: earningsUseCase,
	}
}

type materialRequest struct {
	Name     string  `json:"name" validate:"required"`
	Icon     string  `json:"icon"`
	Quantity float64 `json:"quantity" validate:"required,gte=1"`
	Unit     string  `json:"unit"`
	Price    string  `json:"price"`
}

type estimateRequest struct {
	Materials []materialRequest `json:"materials" validate:"required,min=1,dive"`
}

type createPickupRequest struct {
	Materials []materialRequest `json:"materials" validate:"required,min=1,dive"`
	Images    []string          `json:"images" validate:"max=5,dive,url"`
	Date      string            `json:"date" validate:"required"`
	TimeSlot  string            `json:"time_slot" validate:"required"`
	Address   string            `json:"address" validate:"required,max=300"`
	Phone     string            `json:"phone" validate:"required,bdphone"`
	Notes     string            `json:"notes" validate:"max=500"`
}

type cancelRequest struct {
	Reason         string `json:"reason" validate:"max=500"`
	ExpectedStatus string `json:"expected_status"`
}

type rateRequest struct {
	Rating int      `json:"rating" validate:"required,min=1,max=5"`
	Tags   []string `json:"tags"`
	Review string   `json:"review" validate:"max=500"`
}

func toMaterialInputs(materials []materialRequest) []usecase.MaterialInput {
	inputs := make([]usecase.MaterialInput, len(materials))
	for i, m := range materials {
		inputs[i] = usecase.MaterialInput{
			Name:     m.Name,
			Icon:     m.Icon,
			Quantity: m.Quantity,
			Unit:     m.Unit,
			Price:    m.Price,
		}
	}
	return inputs
}

// parseExpectedStatus accepts an empty value as "no expectation".
func parseExpectedStatus(value string) (pickup.Status, error) {
	if value == "" {
		return "", nil
	}
	s, err := pickup.Parse(value)
	if err != nil {
		return "", errors.Validation("expected_status is not a pickup status")
	}
	return s, nil
}

func (h *PickupHandler) Estimate(c echo.Context) error {
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	estimate, err := h.pickupUseCase.Estimate(c.Request().Context(), toMaterialInputs(req.Materials))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, estimate)
}

func (h *PickupHandler) CreatePickup(c echo.Context) error {
	var req createPickupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	created, err := h.pickupUseCase.CreateRequest(c.Request().Context(), currentActor(c), usecase.CreatePickupInput{
		Materials: toMaterialInputs(req.Materials),
		Images:    req.Images,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Address:   req.Address,
		Phone:     req.Phone,
		Notes:     req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, created)
}

// ListHistory returns the household's own requests, newest first.
func (h *PickupHandler) ListHistory(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	requests, total, err := h.pickupUseCase.ListHistory(c.Request().Context(), currentActor(c), c.QueryParam("status"), params)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, requests, total, params.Page, params.PageSize)
}

func (h *PickupHandler) Summary(c echo.Context) error {
	summary, err := h.earningsUseCase.HouseholdSummary(c.Request().Context(), currentActor(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}

func (h *PickupHandler) GetPickup(c echo.Context) error {
	req, err := h.pickupUseCase.GetRequest(c.Request().Context(), currentActor(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, req)
}

func (h *PickupHandler) ListLogs(c echo.Context) error {
	logs, err := h.pickupUseCase.ListStatusLogs(c.Request().Context(), currentActor(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, logs)
}

// CancelPickup serves both the owner and the assigned collector.
func (h *PickupHandler) CancelPickup(c echo.Context) error {
	var req cancelRequest
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

	updated, err := h.pickupUseCase.Cancel(c.Request().Context(), currentActor(c), c.Param("id"), usecase.TransitionOptions{
		ExpectedStatus: expected,
		Reason:         req.Reason,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

func (h *PickupHandler) RateCollector(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.RateCollector(c.Request().Context(), currentActor(c), c.Param("id"), usecase.RateInput{
		Rating: req.Rating,
		Tags:   req.Tags,
		Review: req.Review,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}
