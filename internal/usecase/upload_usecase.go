package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
)

const (
	MaxImageSize      = 5 << 20
	pickupImageFolder = "public/pickups"
	entityPickup      = "pickup_request"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type UploadUseCase struct {
	fileRepo  repository.FileMetadataRepository
	store     FileStore
	processor ImageProcessor
	now       func() time.Time
}

func NewUploadUseCase(fileRepo repository.FileMetadataRepository, store FileStore, processor ImageProcessor) *UploadUseCase {
	return &UploadUseCase{
		fileRepo:  fileRepo,
		store:     store,
		processor: processor,
		now:       time.Now,
	}
}

func thumbnailName(objectName string) string {
	return strings.TrimSuffix(objectName, ".jpg") + "_thumb.jpg"
}

// UploadPickupImage re-encodes a photo for a pickup request and stores it
// with its thumbnail. The content type is sniffed, not trusted.
func (uc *UploadUseCase) UploadPickupImage(ctx context.Context, userID, filename string, data []byte) (*entity.FileMetadata, error) {
	if len(data) == 0 {
		return nil, errors.Validation("File is empty")
	}
	if len(data) > MaxImageSize {
		return nil, errors.Validation("Image must be at most 5 MB")
	}
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return nil, errors.Validation("Only JPEG and PNG images are allowed")
	}

	img, err := uc.processor.Process(data)
	if err != nil {
		return nil, errors.Validation("Image could not be decoded")
	}

	id := uuid.New().String()
	objectName := fmt.Sprintf("%s/%s/%s.jpg", pickupImageFolder, userID, id)

	url, err := uc.store.Upload(ctx, objectName, "image/jpeg", img.Full)
	if err != nil {
		return nil, errors.Internal("Failed to store image", err)
	}
	thumbURL, err := uc.store.Upload(ctx, thumbnailName(objectName), "image/jpeg", img.Thumbnail)
	if err != nil {
		if delErr := uc.store.Delete(ctx, objectName); delErr != nil {
			logger.Warn("Failed to clean up %s: %v", objectName, delErr)
		}
		return nil, errors.Internal("Failed to store thumbnail", err)
	}

	metadata := &entity.FileMetadata{
		ID:           id,
		URL:          url,
		ThumbnailURL: thumbURL,
		ObjectName:   objectName,
		EntityType:   entityPickup,
		UploadedBy:   userID,
		Filename:     filename,
		FileType:     "image/jpeg",
		FileSize:     int64(len(img.Full)),
		CreatedAt:    uc.now(),
	}
	if err := uc.fileRepo.Create(ctx, metadata); err != nil {
		return nil, err
	}

	return metadata, nil
}

func (uc *UploadUseCase) DeletePickupImage(ctx context.Context, userID, id string) error {
	metadata, err := uc.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if metadata.UploadedBy != userID {
		return errors.Forbidden("You can only delete your own uploads", nil)
	}

	for _, name := range []string{metadata.ObjectName, thumbnailName(metadata.ObjectName)} {
		if err := uc.store.Delete(ctx, name); err != nil {
			return errors.Internal("Failed to delete image", err)
		}
	}
	return uc.fileRepo.Delete(ctx, id)
}
