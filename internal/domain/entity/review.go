package entity

import (
	"time"
)

// Review is a household's rating of the collector on one pickup.
// ID is "<requestId>_<collectorId>", so there is at most one per pair.
type Review struct {
	ID          string    `json:"id" firestore:"id"`
	RequestID   string    `json:"request_id" firestore:"requestId"`
	CollectorID string    `json:"collector_id" firestore:"collectorId"`
	UserID      string    `json:"user_id" firestore:"userId"`
	Rating      int       `json:"rating" firestore:"rating"` // 1-5
	Tags        []string  `json:"tags" firestore:"tags"`
	Review      string    `json:"review,omitempty" firestore:"review,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

func ReviewID(requestID, collectorID string) string {
	return requestID + "_" + collectorID
}

type RatingTag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var RatingTags = []RatingTag{
	{ID: "on_time", Label: "সময়মত এসেছেন", Icon: "⏰"},
	{ID: "polite", Label: "ভদ্র ব্যবহার", Icon: "😊"},
	{ID: "fair_price", Label: "ন্যায্য দাম", Icon: "💰"},
	{ID: "professional", Label: "পেশাদার", Icon: "👔"},
	{ID: "clean", Label: "পরিষ্কার কাজ", Icon: "✨"},
	{ID: "fast", Label: "দ্রুত সেবা", Icon: "⚡"},
}

func IsRatingTag(id string) bool {
	for _, t := range RatingTags {
		if t.ID == id {
			return true
		}
	}
	return false
}
