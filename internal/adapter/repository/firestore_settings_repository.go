package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
)

type firestoreSettingsRepository struct {
	client *firestore.Client
}

func NewFirestoreSettingsRepository(client *firestore.Client) repository.SettingsRepository {
	return &firestoreSettingsRepository{
		client: client,
	}
}

func (r *firestoreSettingsRepository) Get(ctx context.Context, userID string) (*entity.Settings, error) {
	doc, err := r.client.Collection("settings").Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Settings", err)
		}
		return nil, errors.Internal("Failed to get settings", err)
	}

	var settings entity.Settings
	if err := doc.DataTo(&settings); err != nil {
		return nil, errors.Internal("Failed to parse settings", err)
	}
	return &settings, nil
}

func (r *firestoreSettingsRepository) Save(ctx context.Context, settings *entity.Settings) error {
	_, err := r.client.Collection("settings").Doc(settings.UserID).Set(ctx, settings)
	if err != nil {
		return errors.Internal("Failed to save settings", err)
	}
	return nil
}
