package repository

import (
	"context"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/pickup"
)

// TransitionFunc mutates a freshly read request inside a transaction and
// returns the audit entry to store with it. Returning an error aborts the
// transaction without writing anything.
type TransitionFunc func(req *entity.PickupRequest) (*entity.PickupStatusLog, error)

// PickupListFilter narrows list queries. Zero values mean "any"; a zero
// Limit returns every match.
type PickupListFilter struct {
	UserID      string
	CollectorID string
	Status      pickup.Status
	Limit       int
	Offset      int
}

type PickupRepository interface {
	Create(ctx context.Context, req *entity.PickupRequest, log *entity.PickupStatusLog) error
	GetByID(ctx context.Context, id string) (*entity.PickupRequest, error)
	List(ctx context.Context, filter PickupListFilter) ([]*entity.PickupRequest, int64, error)

	// Transition reads the request, applies fn and writes the result
	// atomically. Concurrent transitions on the same request serialize.
	Transition(ctx context.Context, id string, fn TransitionFunc) (*entity.PickupRequest, error)

	ListStatusLogs(ctx context.Context, requestID string) ([]*entity.PickupStatusLog, error)
}
