package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authDelivery "github.com/web5lab/customer-bot-app/internal/auth/delivery"
	authUsecase "github.com/web5lab/customer-bot-app/internal/auth/usecase"
	notificationDelivery "github.com/web5lab/customer-bot-app/internal/notification/delivery"
	notificationUsecase "github.com/web5lab/customer-bot-app/internal/notification/usecase"
)

func SetupRoutes(r *gin.Engine, log *zap.Logger, auth authUsecase.AuthUsecase, notifications notificationUsecase.NotificationUsecase) {
	notificationHandler := notificationDelivery.NewNotificationHandler(log, notifications)

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Notification routes (protected)
	group := r.Group("/notifications")
	group.Use(authDelivery.AuthMiddleware(auth))
	{
		group.POST("/register-token", notificationHandler.RegisterToken)
		group.POST("/send-to-user", notificationHandler.SendToUser)
		group.POST("/send-to-users", notificationHandler.SendToUsers)
		group.POST("/broadcast", notificationHandler.Broadcast)
		group.GET("/devices", notificationHandler.GetDevices)
		group.DELETE("/device/:deviceId", notificationHandler.RemoveDevice)
		group.POST("/test", notificationHandler.SendTest)
	}
}
