package entity

import "time"

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	RecipientID    string    `json:"recipient_id" firestore:"recipientId"`
	Text           string    `json:"text" firestore:"text"`
	RequestID      string    `json:"request_id,omitempty" firestore:"requestId,omitempty"`
	Read           bool      `json:"read" firestore:"read"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}
