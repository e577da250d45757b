package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
)

// memoryRepository keeps registrations in process memory. Nothing survives
// a restart; it exists for local development and tests, and as the default
// when no database is configured.
type memoryRepository struct {
	mu sync.RWMutex

	// Map of userID -> registrations in registration order.
	tokens map[string][]domain.DeviceToken
}

// NewMemoryRepository creates an in-memory TokenRepository.
func NewMemoryRepository() TokenRepository {
	return &memoryRepository{
		tokens: make(map[string][]domain.DeviceToken),
	}
}

func (r *memoryRepository) Register(_ context.Context, userID, token, platform, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	for i, existing := range r.tokens[userID] {
		if existing.Token == token {
			r.tokens[userID][i].LastUsed = now
			return nil
		}
	}

	r.tokens[userID] = append(r.tokens[userID], domain.DeviceToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		DeviceID:  deviceID,
		CreatedAt: now,
		LastUsed:  now,
	})
	return nil
}

func (r *memoryRepository) ListDevices(_ context.Context, userID string) ([]domain.DeviceToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]domain.DeviceToken, len(r.tokens[userID]))
	copy(devices, r.tokens[userID])
	return devices, nil
}

func (r *memoryRepository) RemoveDevice(_ context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.tokens[userID]
	kept := existing[:0:0]
	for _, t := range existing {
		if t.DeviceID != deviceID {
			kept = append(kept, t)
		}
	}

	if len(kept) == len(existing) {
		return domain.ErrDeviceNotFound
	}

	if len(kept) == 0 {
		delete(r.tokens, userID)
	} else {
		r.tokens[userID] = kept
	}
	return nil
}

func (r *memoryRepository) ResolveTokens(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return extractTokens(r.tokens[userID]), nil
}

func (r *memoryRepository) ResolveTokensForUsers(_ context.Context, userIDs []string) ([]string, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []string
	var userCount int
	for _, userID := range userIDs {
		if tokens := r.tokens[userID]; len(tokens) > 0 {
			all = append(all, extractTokens(tokens)...)
			userCount++
		}
	}
	return all, userCount, nil
}

func (r *memoryRepository) ResolveAllTokens(_ context.Context) ([]string, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []string
	var userCount int
	for _, tokens := range r.tokens {
		if len(tokens) > 0 {
			all = append(all, extractTokens(tokens)...)
			userCount++
		}
	}
	return all, userCount, nil
}

func (r *memoryRepository) PruneToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// An invalid token is assumed to live in exactly one user's list, so
	// stop after the first removal.
	for userID, tokens := range r.tokens {
		for i, t := range tokens {
			if t.Token == token {
				r.tokens[userID] = append(tokens[:i:i], tokens[i+1:]...)
				if len(r.tokens[userID]) == 0 {
					delete(r.tokens, userID)
				}
				return nil
			}
		}
	}
	return nil
}

func (r *memoryRepository) RemoveStale(_ context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for userID, tokens := range r.tokens {
		kept := tokens[:0:0]
		for _, t := range tokens {
			if t.LastUsed.Before(olderThan) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) == 0 {
			delete(r.tokens, userID)
		} else {
			r.tokens[userID] = kept
		}
	}
	return removed, nil
}

func extractTokens(devices []domain.DeviceToken) []string {
	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Token
	}
	return tokens
}
