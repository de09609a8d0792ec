package entity

import "time"

const (
	NotificationPickupAccepted   = "pickup_accepted"
	NotificationPickupOnTheWay   = "pickup_on_the_way"
	NotificationPickupAtLocation = "pickup_at_location"
	NotificationPickupInProgress = "pickup_in_progress"
	NotificationPickupCompleted  = "pickup_completed"
	NotificationPickupCancelled  = "pickup_cancelled"
	NotificationNewMessage       = "new_message"
	NotificationPriceUpdate      = "price_update"
	NotificationSystem           = "system"
)

type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Type      string    `json:"type" firestore:"type"`
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	RequestID string    `json:"request_id,omitempty" firestore:"requestId,omitempty"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
