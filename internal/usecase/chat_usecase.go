package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/internal/infrastructure/ratelimit"
	"bhangari/internal/infrastructure/websocket"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
)

const (
	maxMessageLength    = 1000
	defaultMessageLimit = 50
	maxMessageLimit     = 200
	previewLength       = 80
)

// Notifier stores and pushes a notification for its recipient.
type Notifier interface {
	Notify(ctx context.Context, notification *entity.Notification) error
}

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	realtime    RealtimePublisher
	notifier    Notifier
	rateLimiter *ratelimit.RateLimiter
	now         func() time.Time
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	realtime RealtimePublisher,
	notifier Notifier,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		realtime:    realtime,
		notifier:    notifier,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

// NewChatRateLimiter allows ten messages a minute per sender.
func NewChatRateLimiter() *ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(ratelimit.Per(20, time.Minute), map[string]ratelimit.Policy{
		"send_message": ratelimit.Per(10, time.Minute),
	})
}

type SendMessageInput struct {
	RecipientID string
	Text        string
	RequestID   string
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.Validation("Message text is required")
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, errors.Validation("Message is too long")
	}
	if input.RecipientID == "" || input.RecipientID == senderID {
		return nil, errors.BadRequest("Invalid recipient", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
			return nil, errors.TooManyRequests(fmt.Sprintf("Too many messages, try again in %d seconds", int(math.Ceil(wait.Seconds()))))
		}
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, input.RecipientID); err != nil {
		return nil, err
	}

	message := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: entity.ConversationID(senderID, input.RecipientID),
		SenderID:       senderID,
		RecipientID:    input.RecipientID,
		Text:           text,
		RequestID:      input.RequestID,
		CreatedAt:      uc.now(),
	}

	conversation, err := uc.chatRepo.SendMessage(ctx, message)
	if err != nil {
		return nil, err
	}

	if uc.realtime != nil {
		if err := uc.realtime.Publish(ctx, input.RecipientID, websocket.EventNewMessage, message); err != nil {
			logger.Warn("Failed to push message %s: %v", message.ID, err)
		}
	}

	// only the first unread message of a burst raises a notification
	if uc.notifier != nil && conversation.UnreadCount[input.RecipientID] == 1 {
		err := uc.notifier.Notify(ctx, &entity.Notification{
			UserID:    input.RecipientID,
			Type:      entity.NotificationNewMessage,
			Title:     sender.Name + " বার্তা পাঠিয়েছেন",
			Message:   preview(text),
			RequestID: input.RequestID,
		})
		if err != nil {
			logger.Warn("Failed to notify %s of message %s: %v", input.RecipientID, message.ID, err)
		}
	}

	return message, nil
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewLength {
		return text
	}
	return string(r[:previewLength]) + "…"
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, otherID string, limit int) ([]*entity.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	messages, err := uc.chatRepo.ListMessages(ctx, entity.ConversationID(userID, otherID), limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, nil
}

func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, otherID string) (int, error) {
	return uc.chatRepo.MarkRead(ctx, entity.ConversationID(userID, otherID), userID)
}

// ListConversations returns the user's inbox, newest first. search filters
// on the other participant's name, ignoring case.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID, search string) ([]entity.ConversationSummary, error) {
	conversations, err := uc.chatRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	others := make([]string, 0, len(conversations))
	for _, c := range conversations {
		if other := c.OtherParticipant(userID); other != "" {
			others = append(others, other)
		}
	}
	users, err := uc.userRepo.GetByIDs(ctx, others)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	summaries := []entity.ConversationSummary{}
	for _, c := range conversations {
		other, ok := users[c.OtherParticipant(userID)]
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(other.Name), search) {
			continue
		}
		summaries = append(summaries, entity.ConversationSummary{
			ID:            c.ID,
			With:          other.Public(),
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   c.UnreadCount[userID],
		})
	}
	return summaries, nil
}
