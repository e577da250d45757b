package usecase

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
	"github.com/web5lab/customer-bot-app/internal/notification/dto"
	"github.com/web5lab/customer-bot-app/internal/notification/repository"
)

// notificationUsecase implements NotificationUsecase
type notificationUsecase struct {
	log    *zap.Logger
	tokens repository.TokenRepository
	client FCMClient

	// isInvalidToken classifies per-token send failures; the FCM error
	// types cannot be constructed outside the SDK, so tests swap this out.
	isInvalidToken func(error) bool
}

// NewNotificationUsecase creates a new instance of notificationUsecase
func NewNotificationUsecase(log *zap.Logger, tokens repository.TokenRepository, client FCMClient) NotificationUsecase {
	return &notificationUsecase{
		log:            log,
		tokens:         tokens,
		client:         client,
		isInvalidToken: isPermanentTokenError,
	}
}

func (u *notificationUsecase) RegisterToken(ctx context.Context, userID string, req *dto.RegisterTokenRequest) error {
	if req.Token == "" {
		return domain.ErrTokenRequired
	}

	if err := u.tokens.Register(ctx, userID, req.Token, req.Platform, req.DeviceID); err != nil {
		return err
	}

	u.log.Debug("Token registered",
		zap.String("user_id", userID),
		zap.String("token_preview", tokenPreview(req.Token)),
	)
	return nil
}

func (u *notificationUsecase) ListDevices(ctx context.Context, userID string) ([]dto.Device, error) {
	registered, err := u.tokens.ListDevices(ctx, userID)
	if err != nil {
		return nil, err
	}

	devices := make([]dto.Device, len(registered))
	for i, t := range registered {
		devices[i] = dto.Device{
			DeviceID:     t.DeviceID,
			Platform:     t.Platform,
			CreatedAt:    t.CreatedAt,
			LastUsed:     t.LastUsed,
			TokenPreview: t.TokenPreview(),
		}
	}
	return devices, nil
}

func (u *notificationUsecase) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	return u.tokens.RemoveDevice(ctx, userID, deviceID)
}

func (u *notificationUsecase) SendToUser(ctx context.Context, userID, title, body string, data map[string]any) (*dto.SendResult, error) {
	targets, err := u.tokens.ResolveTokens(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, domain.ErrNoDevices
	}

	result, err := u.dispatch(ctx, targets, title, body, data)
	if result != nil {
		result.DeviceCount = len(targets)
		result.UserCount = 1
	}
	return result, err
}

func (u *notificationUsecase) SendToUsers(ctx context.Context, userIDs []string, title, body string, data map[string]any) (*dto.SendResult, error) {
	targets, userCount, err := u.tokens.ResolveTokensForUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, domain.ErrNoDevices
	}

	result, err := u.dispatch(ctx, targets, title, body, data)
	if result != nil {
		result.DeviceCount = len(targets)
		result.UserCount = userCount
	}
	return result, err
}

func (u *notificationUsecase) Broadcast(ctx context.Context, title, body string, data map[string]any) (*dto.SendResult, error) {
	targets, userCount, err := u.tokens.ResolveAllTokens(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, domain.ErrNoDevices
	}

	result, err := u.dispatch(ctx, targets, title, body, data)
	if result != nil {
		result.DeviceCount = len(targets)
		result.UserCount = userCount
	}
	return result, err
}

func (u *notificationUsecase) SendTest(ctx context.Context, userID string) (*dto.SendResult, error) {
	return u.SendToUser(ctx, userID,
		"Test Notification",
		"This is a test notification from your server!",
		map[string]any{
			"screen":    "/chat",
			"timestamp": strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	)
}

func tokenPreview(token string) string {
	if len(token) <= 20 {
		return token + "..."
	}
	return token[:20] + "..."
}
