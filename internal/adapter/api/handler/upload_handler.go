package handler

import (
	"io"

	"github.com/labstack/echo/v4"

	"bhangari/internal/usecase"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
	"bhangari/pkg/response"
)

type UploadHandler struct {
	uploadUseCase *usecase.UploadUseCase
	maxFileSize   int64
}

func NewUploadHandler(uploadUseCase *usecase.UploadUseCase) *UploadHandler {
	return &UploadHandler{
		uploadUseCase: uploadUseCase,
		maxFileSize:   usecase.MaxImageSize,
	}
}

// UploadPickupImage takes a multipart "image" field and returns the stored
// image and thumbnail URLs.
func (h *UploadHandler) UploadPickupImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid image", err))
	}

	logger.Debug("Received pickup image %s, %d bytes", file.Filename, file.Size)

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.Validation("Image must be at most 5 MB"))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read image", err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read image", err))
	}

	metadata, err := h.uploadUseCase.UploadPickupImage(c.Request().Context(), currentUserID(c), file.Filename, data)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, metadata)
}

func (h *UploadHandler) DeletePickupImage(c echo.Context) error {
	if err := h.uploadUseCase.DeletePickupImage(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Image deleted"})
}
