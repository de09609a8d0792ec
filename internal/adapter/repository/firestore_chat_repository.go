package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) SendMessage(ctx context.Context, message *entity.Message) (*entity.Conversation, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	var conversation entity.Conversation
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		convRef := r.client.Collection("conversations").Doc(message.ConversationID)
		doc, err := tx.Get(convRef)
		switch {
		case err == nil:
			if err := doc.DataTo(&conversation); err != nil {
				return err
			}
		case status.Code(err) == codes.NotFound:
			conversation = entity.Conversation{
				ID:           message.ConversationID,
				Participants: []string{message.SenderID, message.RecipientID},
				CreatedAt:    message.CreatedAt,
			}
		default:
			return err
		}

		if conversation.UnreadCount == nil {
			conversation.UnreadCount = make(map[string]int)
		}
		conversation.UnreadCount[message.RecipientID]++
		conversation.LastMessage = message.Text
		conversation.LastSenderID = message.SenderID
		conversation.LastMessageAt = message.CreatedAt
		conversation.UpdatedAt = message.CreatedAt

		if err := tx.Create(r.client.Collection("messages").Doc(message.ID), message); err != nil {
			return err
		}
		return tx.Set(convRef, &conversation)
	})
	if err != nil {
		return nil, transactionError("Failed to send message", err)
	}

	return &conversation, nil
}

// ListMessages returns the newest limit messages, oldest first.
func (r *firestoreChatRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	query := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *firestoreChatRepository) MarkRead(ctx context.Context, conversationID, userID string) (int, error) {
	var marked int

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		marked = 0

		convRef := r.client.Collection("conversations").Doc(conversationID)
		if _, err := tx.Get(convRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}

		unread, err := tx.Documents(r.client.Collection("messages").
			Where("conversationId", "==", conversationID).
			Where("recipientId", "==", userID).
			Where("read", "==", false)).GetAll()
		if err != nil {
			return err
		}

		for _, doc := range unread {
			if err := tx.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
				return err
			}
		}
		marked = len(unread)

		return tx.Update(convRef, []firestore.Update{
			{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
		})
	})
	if err != nil {
		return 0, transactionError("Failed to mark messages as read", err)
	}

	return marked, nil
}

func (r *firestoreChatRepository) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	iter := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var conversations []*entity.Conversation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate conversations", err)
		}

		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return nil, errors.Internal("Failed to parse conversation data", err)
		}
		conversations = append(conversations, &conversation)
	}
	return conversations, nil
}
