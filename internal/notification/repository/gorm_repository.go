package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
)

// gormRepository persists registrations in the device_tokens table.
// Per-user mutation races are serialized by the database: registration is
// a single upsert keyed on (user_id, token), removals are single deletes.
type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a TokenRepository backed by the given database.
func NewGormRepository(db *gorm.DB) TokenRepository {
	return &gormRepository{
		db: db,
	}
}

// Register saves or refreshes a token for a user (atomic upsert).
func (r *gormRepository) Register(ctx context.Context, userID, token, platform, deviceID string) error {
	now := time.Now()
	deviceToken := &domain.DeviceToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		DeviceID:  deviceID,
		CreatedAt: now,
		LastUsed:  now,
	}

	// INSERT ... ON CONFLICT (user_id, token) DO UPDATE SET last_used.
	// Re-registration refreshes last_used only; created_at is preserved.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_used"}),
	}).Create(deviceToken).Error
}

func (r *gormRepository) ListDevices(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	var devices []domain.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *gormRepository) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Delete(&domain.DeviceToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

func (r *gormRepository) ResolveTokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&domain.DeviceToken{}).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Pluck("token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *gormRepository) ResolveTokensForUsers(ctx context.Context, userIDs []string) ([]string, int, error) {
	if len(userIDs) == 0 {
		return nil, 0, nil
	}

	var devices []domain.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at, id").
		Find(&devices).Error
	if err != nil {
		return nil, 0, err
	}

	byUser := make(map[string][]string)
	for _, d := range devices {
		byUser[d.UserID] = append(byUser[d.UserID], d.Token)
	}

	// Keep the caller's user ordering in the flattened list.
	var all []string
	var userCount int
	for _, userID := range userIDs {
		if tokens := byUser[userID]; len(tokens) > 0 {
			all = append(all, tokens...)
			userCount++
		}
	}
	return all, userCount, nil
}

func (r *gormRepository) ResolveAllTokens(ctx context.Context) ([]string, int, error) {
	var devices []domain.DeviceToken
	err := r.db.WithContext(ctx).
		Order("user_id, created_at, id").
		Find(&devices).Error
	if err != nil {
		return nil, 0, err
	}

	users := make(map[string]struct{})
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
		users[d.UserID] = struct{}{}
	}
	return tokens, len(users), nil
}

func (r *gormRepository) PruneToken(ctx context.Context, token string) error {
	var device domain.DeviceToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Order("created_at, id").
		First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&domain.DeviceToken{}, "id = ?", device.ID).Error
}

func (r *gormRepository) RemoveStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("last_used < ?", olderThan).
		Delete(&domain.DeviceToken{})
	return result.RowsAffected, result.Error
}
