package repository

import (
	"context"

	"bhangari/internal/domain/entity"
)

type ChatRepository interface {
	// SendMessage stores the message and upserts its conversation in one
	// transaction, returning the updated conversation.
	SendMessage(ctx context.Context, message *entity.Message) (*entity.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error)
	// MarkRead flips read on every message addressed to userID in the
	// conversation and zeroes the user's unread counter.
	MarkRead(ctx context.Context, conversationID, userID string) (int, error)

	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
}
