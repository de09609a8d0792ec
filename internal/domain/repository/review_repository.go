package repository

import (
	"context"

	"bhangari/internal/domain/entity"
)

// RateFunc validates the rating against the request and collector read in
// the same transaction, updates both in place and returns the review to store.
// collector is nil when the request has no assigned collector.
type RateFunc func(req *entity.PickupRequest, collector *entity.User) (*entity.Review, error)

type ReviewRepository interface {
	// Rate stores a review and the updated request and collector in one
	// transaction. It fails with CONFLICT when the review already exists.
	Rate(ctx context.Context, requestID string, fn RateFunc) (*entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	ListByCollector(ctx context.Context, collectorID string, limit, offset int) ([]*entity.Review, int64, error)
}
