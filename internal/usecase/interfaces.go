package usecase

import (
	"context"

	"bhangari/internal/domain/entity"
	"bhangari/internal/infrastructure/firebase"
	"bhangari/internal/infrastructure/imageproc"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role string
}

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, token string) (*firebase.TokenInfo, error)
	SignIn(ctx context.Context, email, password string) (*firebase.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*firebase.TokenPair, error)
}

type EventPublisher interface {
	PublishPickupEvent(ctx context.Context, event entity.PickupEvent) error
}

// RealtimePublisher pushes an event to every socket a user holds.
type RealtimePublisher interface {
	Publish(ctx context.Context, userID, eventType string, data interface{}) error
}

type FileStore interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type ImageProcessor interface {
	Process(data []byte) (*imageproc.Result, error)
}
