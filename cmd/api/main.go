package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"bhangari/internal/adapter/api"
	"bhangari/internal/adapter/api/handler"
	apimiddleware "bhangari/internal/adapter/api/middleware"
	"bhangari/internal/adapter/api/router"
	"bhangari/internal/adapter/repository"
	"bhangari/internal/infrastructure/events"
	"bhangari/internal/infrastructure/firebase"
	"bhangari/internal/infrastructure/imageproc"
	"bhangari/internal/infrastructure/ratelimit"
	"bhangari/internal/infrastructure/realtime"
	"bhangari/internal/infrastructure/storage"
	"bhangari/internal/infrastructure/websocket"
	"bhangari/internal/usecase"
	"bhangari/pkg/config"
	"bhangari/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Init(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opt option.ClientOption
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))
	} else {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
			logger.L().Fatal("Service account file does not exist", zap.String("path", cfg.FirebaseServiceAccountPath))
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		opt = option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		logger.L().Fatal("Failed to initialize Firebase", zap.Error(err))
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.L().Fatal("Failed to initialize Firebase Auth", zap.Error(err))
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		logger.L().Fatal("Failed to create Firestore client", zap.Error(err))
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		logger.L().Fatal("Failed to initialize Cloud Storage", zap.Error(err))
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	settingsRepo := repository.NewFirestoreSettingsRepository(firestoreClient)
	pickupRepo := repository.NewFirestorePickupRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	fileMetadataRepo := repository.NewFirestoreFileMetadataRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, firebase.NewIdentityToolkit(cfg.FirebaseApiKey))

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	// Redis fans realtime events out across instances; a single instance
	// delivers straight to its own sockets.
	var broker usecase.RealtimePublisher
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.L().Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}

		redisBroker := realtime.NewRedisBroker(redisClient, "", wsManager)
		go func() {
			if err := redisBroker.Run(ctx); err != nil {
				logger.Error("redis broker stopped: %v", err)
			}
		}()
		broker = redisBroker
		logger.Info("Realtime events fan out through Redis at %s", cfg.RedisAddr)
	} else {
		broker = realtime.NewLocalBroker(wsManager)
	}

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, settingsRepo, broker)

	var publisher usecase.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()

		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, notificationUseCase.HandlePickupEvent)
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("pickup event consumer stopped: %v", err)
			}
		}()

		publisher = kafkaPublisher
		logger.Info("Pickup events go through Kafka topic %s", cfg.KafkaTopic)
	} else {
		publisher = events.NewInProcessPublisher(notificationUseCase.HandlePickupEvent)
	}

	priceUseCase, err := usecase.NewPriceUseCase()
	if err != nil {
		logger.L().Fatal("Failed to load price catalog", zap.Error(err))
	}

	chatRateLimiter := usecase.NewChatRateLimiter()
	chatRateLimiter.StartCleanupRoutine(ctx.Done())

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo)
	settingsUseCase := usecase.NewSettingsUseCase(settingsRepo)
	pickupUseCase := usecase.NewPickupUseCase(pickupRepo, userRepo, priceUseCase, publisher, broker, cfg.Location)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo)
	earningsUseCase := usecase.NewEarningsUseCase(pickupRepo, userRepo, cfg.Location)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, broker, notificationUseCase, chatRateLimiter)
	uploadUseCase := usecase.NewUploadUseCase(fileMetadataRepo, storageClient, imageproc.NewProcessor())

	handler.Setup(
		authUseCase,
		userUseCase,
		settingsUseCase,
		priceUseCase,
		pickupUseCase,
		reviewUseCase,
		earningsUseCase,
		chatUseCase,
		notificationUseCase,
		uploadUseCase,
		cfg.Location,
	)
	handler.SetupHealthHandler(wsManager)

	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()

	e.Use(apimiddleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	e.Validator = api.NewValidator()

	limiter := ratelimit.NewRateLimiter(
		ratelimit.Policy{Limit: rate.Limit(cfg.RateLimitRPS), Burst: cfg.RateLimitBurst},
		map[string]ratelimit.Policy{
			"auth":   ratelimit.Per(10, time.Minute),
			"upload": ratelimit.Per(20, time.Minute),
		},
	)
	limiter.StartCleanupRoutine(ctx.Done())

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager)

	router.Setup(e, authMiddleware, limiter, wsHandler)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
