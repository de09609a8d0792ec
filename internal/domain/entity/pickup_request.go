package entity

import (
	"time"

	"bhangari/internal/domain/pickup"
	"bhangari/pkg/utils"
)

type Material struct {
	Name     string  `json:"name" firestore:"name"`
	Icon     string  `json:"icon,omitempty" firestore:"icon,omitempty"`
	Quantity float64 `json:"quantity" firestore:"quantity"`
	Unit     string  `json:"unit" firestore:"unit"`
	Price    string  `json:"price" firestore:"price"` // price label, e.g. "৳৮-১২"
}

type Schedule struct {
	Date        string `json:"date" firestore:"date"` // YYYY-MM-DD
	DateDisplay string `json:"date_display" firestore:"dateDisplay"`
	TimeSlot    string `json:"time_slot" firestore:"timeSlot"`
	TimeValue   string `json:"time_value" firestore:"timeValue"`
}

type PickupRequest struct {
	ID        string        `json:"id" firestore:"id"`
	UserID    string        `json:"user_id" firestore:"userId"`
	UserEmail string        `json:"user_email,omitempty" firestore:"userEmail,omitempty"`
	Materials []Material    `json:"materials" firestore:"materials"`
	Images    []string      `json:"images" firestore:"images"`
	Schedule  Schedule      `json:"schedule" firestore:"schedule"`
	Address   string        `json:"address" firestore:"address"`
	Phone     string        `json:"phone" firestore:"phone"`
	Notes     string        `json:"notes,omitempty" firestore:"notes,omitempty"`
	Status    pickup.Status `json:"status" firestore:"status"`

	CollectorID       string   `json:"collector_id,omitempty" firestore:"collectorId,omitempty"`
	EstimatedEarnings int      `json:"estimated_earnings" firestore:"estimatedEarnings"`
	ActualEarnings    *float64 `json:"actual_earnings,omitempty" firestore:"actualEarnings,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty" firestore:"cancellationReason,omitempty"`
	CancelledBy        string `json:"cancelled_by,omitempty" firestore:"cancelledBy,omitempty"`

	UserRating int        `json:"user_rating,omitempty" firestore:"userRating,omitempty"`
	UserReview string     `json:"user_review,omitempty" firestore:"userReview,omitempty"`
	RatingTags []string   `json:"rating_tags,omitempty" firestore:"ratingTags,omitempty"`
	RatedAt    *time.Time `json:"rated_at,omitempty" firestore:"ratedAt,omitempty"`

	CreatedAt    time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time  `json:"updated_at" firestore:"updatedAt"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty" firestore:"acceptedAt,omitempty"`
	OnTheWayAt   *time.Time `json:"on_the_way_at,omitempty" firestore:"onTheWayAt,omitempty"`
	AtLocationAt *time.Time `json:"at_location_at,omitempty" firestore:"atLocationAt,omitempty"`
	InProgressAt *time.Time `json:"in_progress_at,omitempty" firestore:"inProgressAt,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`
}

// Stamp records when the request entered status.
func (p *PickupRequest) Stamp(status pickup.Status, at time.Time) {
	t := at
	switch status {
	case pickup.StatusAccepted:
		p.AcceptedAt = &t
	case pickup.StatusOnTheWay:
		p.OnTheWayAt = &t
	case pickup.StatusAtLocation:
		p.AtLocationAt = &t
	case pickup.StatusInProgress:
		p.InProgressAt = &t
	case pickup.StatusCompleted:
		p.CompletedAt = &t
	case pickup.StatusCancelled:
		p.CancelledAt = &t
	}
}

// Earnings is what the collector made on the pickup: the recorded actual
// amount when one was given (zero included), falling back to the estimate.
func (p *PickupRequest) Earnings() float64 {
	if p.ActualEarnings != nil {
		return *p.ActualEarnings
	}
	return float64(p.EstimatedEarnings)
}

func (p *PickupRequest) IsRated() bool {
	return p.UserRating > 0
}

func PricedQuantities(materials []Material) []utils.PricedQuantity {
	items := make([]utils.PricedQuantity, len(materials))
	for i, m := range materials {
		items[i] = utils.PricedQuantity{Price: m.Price, Quantity: m.Quantity}
	}
	return items
}

type PickupStatusLog struct {
	ID        string        `json:"id" firestore:"id"`
	RequestID string        `json:"request_id" firestore:"requestId"`
	From      pickup.Status `json:"from,omitempty" firestore:"from,omitempty"`
	To        pickup.Status `json:"to" firestore:"to"`
	ActorID   string        `json:"actor_id" firestore:"actorId"`
	ActorRole string        `json:"actor_role" firestore:"actorRole"`
	Note      string        `json:"note,omitempty" firestore:"note,omitempty"`
	CreatedAt time.Time     `json:"created_at" firestore:"createdAt"`
}
