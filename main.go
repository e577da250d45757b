package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/web5lab/customer-bot-app/cmd/api"
	authUsecase "github.com/web5lab/customer-bot-app/internal/auth/usecase"
	notificationDomain "github.com/web5lab/customer-bot-app/internal/notification/domain"
	notificationRepo "github.com/web5lab/customer-bot-app/internal/notification/repository"
	"github.com/web5lab/customer-bot-app/internal/notification/scheduler"
	notificationUsecase "github.com/web5lab/customer-bot-app/internal/notification/usecase"
	"github.com/web5lab/customer-bot-app/pkg/config"
	"github.com/web5lab/customer-bot-app/pkg/database"
	"github.com/web5lab/customer-bot-app/pkg/fcm"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize the token registry. Postgres when configured, otherwise
	// in-process memory (demo-grade, nothing survives a restart).
	var tokens notificationRepo.TokenRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&notificationDomain.DeviceToken{}); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		tokens = notificationRepo.NewGormRepository(db)
	} else {
		log.Warn("DATABASE_URL not configured, using in-memory token registry")
		tokens = notificationRepo.NewMemoryRepository()
	}

	// Initialize FCM client
	fcmClient, err := fcm.NewClient(context.Background(), cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize FCM client", zap.Error(err))
	}

	// Initialize use cases (dependency injection)
	auth := authUsecase.NewAuthUsecase(cfg)
	notifications := notificationUsecase.NewNotificationUsecase(log, tokens, fcmClient)

	// Start the stale token sweeper
	sweeper := scheduler.NewStaleTokenSweeper(log, tokens, cfg.TokenRetention, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// Set up HTTP routes
	r := gin.Default()
	api.SetupRoutes(r, log, auth, notifications)

	// Start server
	log.Info("Notification server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
