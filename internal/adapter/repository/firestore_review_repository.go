package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

// Rate does every read before the first write, as Firestore transactions require.
func (r *firestoreReviewRepository) Rate(ctx context.Context, requestID string, fn repository.RateFunc) (*entity.Review, error) {
	var stored entity.Review

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		reqRef := r.client.Collection(pickupCollection).Doc(requestID)
		reqDoc, err := tx.Get(reqRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Pickup request", err)
			}
			return err
		}

		var req entity.PickupRequest
		if err := reqDoc.DataTo(&req); err != nil {
			return err
		}

		var collector *entity.User
		var collectorRef, reviewRef *firestore.DocumentRef
		if req.CollectorID != "" {
			collectorRef = r.client.Collection("users").Doc(req.CollectorID)
			collectorDoc, err := tx.Get(collectorRef)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return errors.NotFound("Collector", err)
				}
				return err
			}
			collector = &entity.User{}
			if err := collectorDoc.DataTo(collector); err != nil {
				return err
			}

			reviewRef = r.client.Collection("reviews").Doc(entity.ReviewID(req.ID, req.CollectorID))
			if _, err := tx.Get(reviewRef); err == nil {
				return errors.Conflict("Pickup request has already been rated")
			} else if status.Code(err) != codes.NotFound {
				return err
			}
		}

		review, err := fn(&req, collector)
		if err != nil {
			return err
		}
		if reviewRef == nil {
			return errors.Conflict("Pickup request has no collector to rate")
		}
		review.ID = reviewRef.ID

		if err := tx.Create(reviewRef, review); err != nil {
			return err
		}
		if err := tx.Set(reqRef, &req); err != nil {
			return err
		}
		if err := tx.Update(collectorRef, []firestore.Update{
			{Path: "rating", Value: collector.Rating},
			{Path: "totalRatings", Value: collector.TotalRatings},
			{Path: "updatedAt", Value: collector.UpdatedAt},
		}); err != nil {
			return err
		}

		stored = *review
		return nil
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, errors.Conflict("Pickup request has already been rated")
		}
		return nil, transactionError("Failed to store review", err)
	}

	return &stored, nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", err)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}

	return &review, nil
}

func (r *firestoreReviewRepository) ListByCollector(ctx context.Context, collectorID string, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection("reviews").Where("collectorId", "==", collectorID)

	total, err := countQuery(ctx, query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count reviews", err)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var reviews []*entity.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate reviews", err)
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, 0, errors.Internal("Failed to parse review data", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}
