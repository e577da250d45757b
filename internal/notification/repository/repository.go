package repository

import (
	"context"
	"time"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
)

// TokenRepository is the single source of truth for which device tokens
// belong to which user.
type TokenRepository interface {
	// Register adds a token for a user. If the same token is already
	// registered for that user, only its last-used timestamp is refreshed.
	Register(ctx context.Context, userID, token, platform, deviceID string) error

	// ListDevices returns the user's registrations in registration order.
	ListDevices(ctx context.Context, userID string) ([]domain.DeviceToken, error)

	// RemoveDevice removes the user's registrations matching deviceID.
	// Returns domain.ErrDeviceNotFound if nothing matched.
	RemoveDevice(ctx context.Context, userID, deviceID string) error

	// ResolveTokens returns the flat list of token strings for one user.
	ResolveTokens(ctx context.Context, userID string) ([]string, error)

	// ResolveTokensForUsers returns the concatenated tokens for the given
	// users plus the number of users that contributed at least one token.
	ResolveTokensForUsers(ctx context.Context, userIDs []string) ([]string, int, error)

	// ResolveAllTokens returns every registered token plus the number of
	// users with at least one token.
	ResolveAllTokens(ctx context.Context) ([]string, int, error)

	// PruneToken removes the first registration matching token, across all
	// users. No-op if the token is not registered anywhere.
	PruneToken(ctx context.Context, token string) error

	// RemoveStale deletes registrations whose last-used timestamp is older
	// than the cutoff, returning the number removed.
	RemoveStale(ctx context.Context, olderThan time.Time) (int64, error)
}
