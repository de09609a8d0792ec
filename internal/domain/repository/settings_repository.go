package repository

import (
	"context"

	"bhangari/internal/domain/entity"
)

type SettingsRepository interface {
	// Get returns NOT_FOUND when the user never saved settings.
	Get(ctx context.Context, userID string) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
}
