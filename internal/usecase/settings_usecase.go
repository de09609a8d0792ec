package usecase

import (
	"context"
	"time"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
)

type SettingsUseCase struct {
	settingsRepo repository.SettingsRepository
	now          func() time.Time
}

func NewSettingsUseCase(settingsRepo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// UpdateSettingsInput holds the toggles to change; nil leaves a value as is.
type UpdateSettingsInput struct {
	NotificationsEnabled *bool
	SoundEnabled         *bool
	AutoAcceptEnabled    *bool
	LocationEnabled      *bool
	Language             *string
}

func (uc *SettingsUseCase) Get(ctx context.Context, userID string) (*entity.Settings, error) {
	settings, err := uc.settingsRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return entity.DefaultSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

func (uc *SettingsUseCase) Update(ctx context.Context, userID string, input UpdateSettingsInput) (*entity.Settings, error) {
	if input.Language != nil && *input.Language != "bn" && *input.Language != "en" {
		return nil, errors.Validation("Language must be bn or en")
	}

	settings, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *input.NotificationsEnabled
	}
	if input.SoundEnabled != nil {
		settings.SoundEnabled = *input.SoundEnabled
	}
	if input.AutoAcceptEnabled != nil {
		settings.AutoAcceptEnabled = *input.AutoAcceptEnabled
	}
	if input.LocationEnabled != nil {
		settings.LocationEnabled = *input.LocationEnabled
	}
	if input.Language != nil {
		settings.Language = *input.Language
	}
	settings.UpdatedAt = uc.now()

	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
