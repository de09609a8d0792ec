package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
)

const (
	pickupCollection    = "pickupRequests"
	statusLogCollection = "statusLogs"
)

type firestorePickupRepository struct {
	client *firestore.Client
}

func NewFirestorePickupRepository(client *firestore.Client) repository.PickupRepository {
	return &firestorePickupRepository{
		client: client,
	}
}

func (r *firestorePickupRepository) logs(requestID string) *firestore.CollectionRef {
	return r.client.Collection(pickupCollection).Doc(requestID).Collection(statusLogCollection)
}

func (r *firestorePickupRepository) Create(ctx context.Context, req *entity.PickupRequest, log *entity.PickupStatusLog) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(r.client.Collection(pickupCollection).Doc(req.ID), req); err != nil {
			return err
		}
		if log == nil {
			return nil
		}
		if log.ID == "" {
			log.ID = uuid.New().String()
		}
		log.RequestID = req.ID
		return tx.Create(r.logs(req.ID).Doc(log.ID), log)
	})
	if err != nil {
		return errors.Internal("Failed to create pickup request", err)
	}
	return nil
}

func (r *firestorePickupRepository) GetByID(ctx context.Context, id string) (*entity.PickupRequest, error) {
	doc, err := r.client.Collection(pickupCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Pickup request", err)
		}
		return nil, errors.Internal("Failed to get pickup request", err)
	}

	var req entity.PickupRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, errors.Internal("Failed to parse pickup request", err)
	}
	return &req, nil
}

func (r *firestorePickupRepository) List(ctx context.Context, filter repository.PickupListFilter) ([]*entity.PickupRequest, int64, error) {
	query := r.client.Collection(pickupCollection).Query
	if filter.UserID != "" {
		query = query.Where("userId", "==", filter.UserID)
	}
	if filter.CollectorID != "" {
		query = query.Where("collectorId", "==", filter.CollectorID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	total, err := countQuery(ctx, query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count pickup requests", err)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var requests []*entity.PickupRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate pickup requests", err)
		}

		var req entity.PickupRequest
		if err := doc.DataTo(&req); err != nil {
			return nil, 0, errors.Internal("Failed to parse pickup request", err)
		}
		requests = append(requests, &req)
	}

	return requests, total, nil
}

func (r *firestorePickupRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.PickupRequest, error) {
	var updated entity.PickupRequest

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection(pickupCollection).Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Pickup request", err)
			}
			return err
		}

		var req entity.PickupRequest
		if err := doc.DataTo(&req); err != nil {
			return err
		}

		entry, err := fn(&req)
		if err != nil {
			return err
		}

		if err := tx.Set(docRef, &req); err != nil {
			return err
		}
		if entry != nil {
			if entry.ID == "" {
				entry.ID = uuid.New().String()
			}
			entry.RequestID = req.ID
			if err := tx.Create(r.logs(req.ID).Doc(entry.ID), entry); err != nil {
				return err
			}
		}

		updated = req
		return nil
	})
	if err != nil {
		return nil, transactionError("Failed to update pickup request", err)
	}

	return &updated, nil
}

func (r *firestorePickupRepository) ListStatusLogs(ctx context.Context, requestID string) ([]*entity.PickupStatusLog, error) {
	iter := r.logs(requestID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var logs []*entity.PickupStatusLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate status logs", err)
		}

		var entry entity.PickupStatusLog
		if err := doc.DataTo(&entry); err != nil {
			return nil, errors.Internal("Failed to parse status log", err)
		}
		logs = append(logs, &entry)
	}
	return logs, nil
}

// transactionError passes business errors raised inside a transaction
// through untouched and wraps everything else.
func transactionError(message string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	logger.Error("%s: %v", message, err)
	return errors.Internal(message, err)
}
