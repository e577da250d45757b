package delivery

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
	"github.com/web5lab/customer-bot-app/internal/notification/dto"
	"github.com/web5lab/customer-bot-app/internal/notification/usecase"
)

type NotificationHandler struct {
	log                 *zap.Logger
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(log *zap.Logger, notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		log:                 log,
		notificationUsecase: notificationUsecase,
	}
}

func (h *NotificationHandler) RegisterToken(c *gin.Context) {
	var req dto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	userID := c.GetString("userID")
	if err := h.notificationUsecase.RegisterToken(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, domain.ErrTokenRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}
		h.log.Error("Failed to register token", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register token"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Token registered successfully",
	})
}

func (h *NotificationHandler) SendToUser(c *gin.Context) {
	var req dto.SendToUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId, title, and body are required"})
		return
	}

	result, err := h.notificationUsecase.SendToUser(c.Request.Context(), req.UserID, req.Title, req.Body, req.Data)
	if err != nil {
		if errors.Is(err, domain.ErrNoDevices) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no device tokens found for user"})
			return
		}
		h.log.Error("Failed to send notification", zap.String("target_user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, dto.SendResponse{
		Success: true,
		Message: fmt.Sprintf("Notification sent to %d device(s)", result.DeviceCount),
		Result:  result,
	})
}

func (h *NotificationHandler) SendToUsers(c *gin.Context) {
	var req dto.SendToUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userIds (array), title, and body are required"})
		return
	}

	result, err := h.notificationUsecase.SendToUsers(c.Request.Context(), req.UserIDs, req.Title, req.Body, req.Data)
	if err != nil {
		if errors.Is(err, domain.ErrNoDevices) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no device tokens found for any of the specified users"})
			return
		}
		h.log.Error("Failed to send notification", zap.Int("target_users", len(req.UserIDs)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, dto.SendResponse{
		Success: true,
		Message: fmt.Sprintf("Notification sent to %d user(s) with %d device(s)", result.UserCount, result.DeviceCount),
		Result:  result,
	})
}

func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and body are required"})
		return
	}

	result, err := h.notificationUsecase.Broadcast(c.Request.Context(), req.Title, req.Body, req.Data)
	if err != nil {
		if errors.Is(err, domain.ErrNoDevices) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no device tokens found"})
			return
		}
		h.log.Error("Failed to send broadcast", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send broadcast"})
		return
	}

	c.JSON(http.StatusOK, dto.SendResponse{
		Success: true,
		Message: fmt.Sprintf("Broadcast sent to %d user(s) with %d device(s)", result.UserCount, result.DeviceCount),
		Result:  result,
	})
}

func (h *NotificationHandler) GetDevices(c *gin.Context) {
	userID := c.GetString("userID")

	devices, err := h.notificationUsecase.ListDevices(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to get devices", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get devices"})
		return
	}

	c.JSON(http.StatusOK, dto.DevicesResponse{
		Success: true,
		Devices: devices,
		Count:   len(devices),
	})
}

func (h *NotificationHandler) RemoveDevice(c *gin.Context) {
	userID := c.GetString("userID")
	deviceID := c.Param("deviceId")

	if err := h.notificationUsecase.RemoveDevice(c.Request.Context(), userID, deviceID); err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		h.log.Error("Failed to remove device", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Device removed successfully",
	})
}

func (h *NotificationHandler) SendTest(c *gin.Context) {
	userID := c.GetString("userID")

	result, err := h.notificationUsecase.SendTest(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDevices) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no device tokens found for your account"})
			return
		}
		h.log.Error("Failed to send test notification", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send test notification"})
		return
	}

	c.JSON(http.StatusOK, dto.SendResponse{
		Success: true,
		Message: "Test notification sent successfully",
		Result:  result,
	})
}
