package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"bhangari/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	settingsHandler     *SettingsHandler
	priceHandler        *PriceHandler
	pickupHandler       *PickupHandler
	collectorHandler    *CollectorHandler
	reviewHandler       *ReviewHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
	uploadHandler       *UploadHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	settingsUseCase *usecase.SettingsUseCase,
	priceUseCase *usecase.PriceUseCase,
	pickupUseCase *usecase.PickupUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	earningsUseCase *usecase.EarningsUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	uploadUseCase *usecase.UploadUseCase,
	location *time.Location,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	settingsHandler = NewSettingsHandler(settingsUseCase)
	priceHandler = NewPriceHandler(priceUseCase, location)
	pickupHandler = NewPickupHandler(pickupUseCase, reviewUseCase, earningsUseCase)
	collectorHandler = NewCollectorHandler(pickupUseCase, earningsUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	uploadHandler = NewUploadHandler(uploadUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetSettingsHandler() *SettingsHandler {
	return settingsHandler
}

func GetPriceHandler() *PriceHandler {
	return priceHandler
}

func GetPickupHandler() *PickupHandler {
	return pickupHandler
}

func GetCollectorHandler() *CollectorHandler {
	return collectorHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetUploadHandler() *UploadHandler {
	return uploadHandler
}

// currentActor is the caller stored by the auth middleware.
func currentActor(c echo.Context) usecase.Actor {
	uid, _ := c.Get("uid").(string)
	role, _ := c.Get("role").(string)
	return usecase.Actor{ID: uid, Role: role}
}

func currentUserID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
