package usecase

import (
	"context"
	"strings"
	"time"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/pickup"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
	"bhangari/pkg/utils"
)

const maxReviewLength = 500

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	now        func() time.Time
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		now:        time.Now,
	}
}

type RateInput struct {
	Rating int
	Tags   []string
	Review string
}

func (in RateInput) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return errors.Validation("Rating must be between 1 and 5")
	}
	for _, tag := range in.Tags {
		if !entity.IsRatingTag(tag) {
			return errors.Validation("Unknown rating tag " + tag)
		}
	}
	if len([]rune(in.Review)) > maxReviewLength {
		return errors.Validation("Review is too long")
	}
	return nil
}

// RateCollector stores the household's rating of a completed pickup and
// folds it into the collector's average in the same transaction.
func (uc *ReviewUseCase) RateCollector(ctx context.Context, actor Actor, requestID string, input RateInput) (*entity.Review, error) {
	if actor.Role != entity.RoleHousehold {
		return nil, errors.Forbidden("Only households can rate collectors", nil)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	tags := dedupe(input.Tags)
	text := strings.TrimSpace(input.Review)

	review, err := uc.reviewRepo.Rate(ctx, requestID, func(req *entity.PickupRequest, collector *entity.User) (*entity.Review, error) {
		if req.UserID != actor.ID {
			return nil, errors.Forbidden("Only the owner can rate this pickup", nil)
		}
		if req.Status != pickup.StatusCompleted {
			return nil, errors.Conflict("Only completed pickups can be rated")
		}
		if req.IsRated() {
			return nil, errors.Conflict("Pickup request has already been rated")
		}
		if collector == nil {
			return nil, errors.Conflict("Pickup request has no collector to rate")
		}

		now := uc.now()
		req.UserRating = input.Rating
		req.UserReview = text
		req.RatingTags = tags
		req.RatedAt = &now
		req.UpdatedAt = now

		collector.ApplyRating(input.Rating)
		collector.UpdatedAt = now

		return &entity.Review{
			RequestID:   req.ID,
			CollectorID: collector.ID,
			UserID:      actor.ID,
			Rating:      input.Rating,
			Tags:        tags,
			Review:      text,
			CreatedAt:   now,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Collector %s rated %d for pickup %s", review.CollectorID, review.Rating, requestID)
	return review, nil
}

func (uc *ReviewUseCase) ListCollectorReviews(ctx context.Context, collectorID string, params utils.PaginationParams) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListByCollector(ctx, collectorID, params.PageSize, params.Offset)
}

func (uc *ReviewUseCase) Tags() []entity.RatingTag {
	return append([]entity.RatingTag(nil), entity.RatingTags...)
}

func dedupe(values []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
