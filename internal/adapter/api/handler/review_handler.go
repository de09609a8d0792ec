package handler

import (
	"github.com/labstack/echo/v4"

	"bhangari/internal/usecase"
	"bhangari/pkg/response"
	"bhangari/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

func (h *ReviewHandler) ListCollectorReviews(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUseCase.ListCollectorReviews(c.Request().Context(), c.Param("id"), params)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, params.Page, params.PageSize)
}

func (h *ReviewHandler) ListTags(c echo.Context) error {
	return response.Success(c, h.reviewUseCase.Tags())
}
