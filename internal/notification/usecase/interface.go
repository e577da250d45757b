package usecase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"github.com/web5lab/customer-bot-app/internal/notification/dto"
)

// FCMClient is the slice of the Firebase messaging API the dispatcher uses.
type FCMClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// NotificationUsecase manages device registrations and fans notifications
// out to them.
type NotificationUsecase interface {
	// RegisterToken registers a device token for the user. Re-registering
	// the same token refreshes its last-used timestamp.
	RegisterToken(ctx context.Context, userID string, req *dto.RegisterTokenRequest) error

	// ListDevices returns the user's registered devices with redacted tokens.
	ListDevices(ctx context.Context, userID string) ([]dto.Device, error)

	// RemoveDevice removes the user's device by device ID.
	RemoveDevice(ctx context.Context, userID, deviceID string) error

	// SendToUser sends a notification to every device of one user.
	SendToUser(ctx context.Context, userID, title, body string, data map[string]any) (*dto.SendResult, error)

	// SendToUsers sends a notification to every device of the given users.
	SendToUsers(ctx context.Context, userIDs []string, title, body string, data map[string]any) (*dto.SendResult, error)

	// Broadcast sends a notification to every registered device.
	Broadcast(ctx context.Context, title, body string, data map[string]any) (*dto.SendResult, error)

	// SendTest sends a canned test notification to the caller's own devices.
	SendTest(ctx context.Context, userID string) (*dto.SendResult, error)
}
