package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/pickup"
	"bhangari/internal/domain/repository"
	"bhangari/internal/infrastructure/websocket"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
	"bhangari/pkg/utils"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	settingsRepo     repository.SettingsRepository
	realtime         RealtimePublisher
	now              func() time.Time
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	settingsRepo repository.SettingsRepository,
	realtime RealtimePublisher,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		settingsRepo:     settingsRepo,
		realtime:         realtime,
		now:              time.Now,
	}
}

type pickupNotice struct {
	kind, title, message string
}

var pickupNotices = map[pickup.Status]pickupNotice{
	pickup.StatusAccepted:   {entity.NotificationPickupAccepted, "অনুরোধ গৃহীত হয়েছে", "একজন সংগ্রাহক আপনার পিকআপ অনুরোধ গ্রহণ করেছেন"},
	pickup.StatusOnTheWay:   {entity.NotificationPickupOnTheWay, "সংগ্রাহক পথে আছেন", "সংগ্রাহক আপনার ঠিকানার দিকে রওনা হয়েছেন"},
	pickup.StatusAtLocation: {entity.NotificationPickupAtLocation, "সংগ্রাহক পৌঁছেছেন", "সংগ্রাহক আপনার ঠিকানায় পৌঁছেছেন"},
	pickup.StatusInProgress: {entity.NotificationPickupInProgress, "সংগ্রহ শুরু হয়েছে", "আপনার জিনিসপত্র ওজন ও সংগ্রহ করা হচ্ছে"},
	pickup.StatusCompleted:  {entity.NotificationPickupCompleted, "পিকআপ সম্পন্ন", "পিকআপ সম্পন্ন হয়েছে। সংগ্রাহককে রেটিং দিন"},
	pickup.StatusCancelled:  {entity.NotificationPickupCancelled, "পিকআপ বাতিল", "পিকআপ অনুরোধটি বাতিল করা হয়েছে"},
}

// HandlePickupEvent notifies the party that did not make the change:
// the household for collector actions, the collector when the household cancels.
func (uc *NotificationUseCase) HandlePickupEvent(ctx context.Context, event entity.PickupEvent) error {
	notice, ok := pickupNotices[event.To]
	if !ok {
		return nil
	}

	recipient := event.HouseholdID
	if event.ActorRole == entity.RoleHousehold {
		recipient = event.CollectorID
	}
	if recipient == "" || recipient == event.ActorID {
		return nil
	}

	message := notice.message
	if event.To == pickup.StatusCancelled && event.Reason != "" {
		message += ": " + event.Reason
	}

	return uc.Notify(ctx, &entity.Notification{
		UserID:    recipient,
		Type:      notice.kind,
		Title:     notice.title,
		Message:   message,
		RequestID: event.RequestID,
	})
}

// Notify stores the notification and pushes it live, unless the recipient
// turned notifications off.
func (uc *NotificationUseCase) Notify(ctx context.Context, notification *entity.Notification) error {
	settings, err := uc.settingsRepo.Get(ctx, notification.UserID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return err
		}
		settings = entity.DefaultSettings(notification.UserID)
	}
	if !settings.NotificationsEnabled {
		logger.Debug("Notifications disabled for %s, skipping %s", notification.UserID, notification.Type)
		return nil
	}

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.Read = false
	notification.CreatedAt = uc.now()

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	if uc.realtime != nil {
		if err := uc.realtime.Publish(ctx, notification.UserID, websocket.EventNotification, notification); err != nil {
			logger.Warn("Failed to push notification %s: %v", notification.ID, err)
		}
	}
	return nil
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, params utils.PaginationParams) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUser(ctx, userID, unreadOnly, params.PageSize, params.Offset)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

// owned hides other users' notifications behind NOT_FOUND.
func (uc *NotificationUseCase) owned(ctx context.Context, userID, id string) (*entity.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, errors.NotFound("Notification", nil)
	}
	return n, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	n, err := uc.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	return uc.notificationRepo.MarkRead(ctx, id)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return uc.notificationRepo.Delete(ctx, id)
}
