package entity

import (
	"time"

	"bhangari/internal/domain/pickup"
)

// PickupEvent is published after every successful status change.
type PickupEvent struct {
	RequestID   string        `json:"request_id"`
	HouseholdID string        `json:"household_id"`
	CollectorID string        `json:"collector_id,omitempty"`
	From        pickup.Status `json:"from,omitempty"`
	To          pickup.Status `json:"to"`
	ActorID     string        `json:"actor_id"`
	ActorRole   string        `json:"actor_role"`
	Reason      string        `json:"reason,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}
