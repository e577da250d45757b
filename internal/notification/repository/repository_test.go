package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
)

// runRepositoryTests is the shared contract suite. Every TokenRepository
// implementation must pass it; setup returns a clean repository per test.
func runRepositoryTests(t *testing.T, setup func(t *testing.T) TokenRepository) {
	for name, tf := range map[string]func(t *testing.T, repo TokenRepository){
		"RegisterAndList":        testRegisterAndList,
		"ReRegisterIsIdempotent": testReRegisterIsIdempotent,
		"RemoveDevice":           testRemoveDevice,
		"ResolveTokens":          testResolveTokens,
		"ResolveTokensForUsers":  testResolveTokensForUsers,
		"ResolveAllTokens":       testResolveAllTokens,
		"PruneToken":             testPruneToken,
		"RemoveStale":            testRemoveStale,
	} {
		t.Run(name, func(t *testing.T) {
			tf(t, setup(t))
		})
	}
}

func testRegisterAndList(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	devices, err := repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, devices)

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))
	require.NoError(t, repo.Register(ctx, "user1", "token-bbbbbbbbbbbbbbbbbbbbbbbb", "web", "device2"))

	devices, err = repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, devices, 2)

	// Registration order is preserved for listing stability.
	assert.Equal(t, "device1", devices[0].DeviceID)
	assert.Equal(t, "android", devices[0].Platform)
	assert.Equal(t, "device2", devices[1].DeviceID)
	assert.Equal(t, "web", devices[1].Platform)
	assert.False(t, devices[0].CreatedAt.IsZero())
	assert.False(t, devices[0].LastUsed.IsZero())
}

func testReRegisterIsIdempotent(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))

	devices, err := repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	firstSeen := devices[0].LastUsed
	created := devices[0].CreatedAt

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))

	devices, err = repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, devices, 1, "re-registration must not duplicate the record")
	assert.True(t, devices[0].LastUsed.After(firstSeen), "last_used should be refreshed")
	assert.Equal(t, created.Unix(), devices[0].CreatedAt.Unix(), "created_at should be preserved")
}

func testRemoveDevice(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))
	require.NoError(t, repo.Register(ctx, "user1", "token-bbbbbbbbbbbbbbbbbbbbbbbb", "web", "device2"))

	// Unknown device leaves the list unchanged.
	err := repo.RemoveDevice(ctx, "user1", "no-such-device")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)

	devices, err := repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	// Removing an existing device shortens the list by one.
	require.NoError(t, repo.RemoveDevice(ctx, "user1", "device1"))

	devices, err = repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "device2", devices[0].DeviceID)

	// Second removal of the same device reports not found.
	err = repo.RemoveDevice(ctx, "user1", "device1")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func testResolveTokens(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	tokens, err := repo.ResolveTokens(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))
	require.NoError(t, repo.Register(ctx, "user1", "token-bbbbbbbbbbbbbbbbbbbbbbbb", "web", "device2"))
	require.NoError(t, repo.Register(ctx, "user2", "token-cccccccccccccccccccccccc", "android", "device3"))

	tokens, err = repo.ResolveTokens(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"token-aaaaaaaaaaaaaaaaaaaaaaaa", "token-bbbbbbbbbbbbbbbbbbbbbbbb"}, tokens)
}

func testResolveTokensForUsers(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))
	require.NoError(t, repo.Register(ctx, "user1", "token-bbbbbbbbbbbbbbbbbbbbbbbb", "web", "device2"))
	require.NoError(t, repo.Register(ctx, "user3", "token-cccccccccccccccccccccccc", "android", "device3"))

	// user2 has no tokens and must not count as a contributing user.
	tokens, userCount, err := repo.ResolveTokensForUsers(ctx, []string{"user1", "user2", "user3"})
	require.NoError(t, err)
	assert.Equal(t, 2, userCount)
	assert.Equal(t, []string{
		"token-aaaaaaaaaaaaaaaaaaaaaaaa",
		"token-bbbbbbbbbbbbbbbbbbbbbbbb",
		"token-cccccccccccccccccccccccc",
	}, tokens)

	tokens, userCount, err = repo.ResolveTokensForUsers(ctx, []string{"user2"})
	require.NoError(t, err)
	assert.Zero(t, userCount)
	assert.Empty(t, tokens)
}

func testResolveAllTokens(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	tokens, userCount, err := repo.ResolveAllTokens(ctx)
	require.NoError(t, err)
	assert.Zero(t, userCount)
	assert.Empty(t, tokens)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Register(ctx, fmt.Sprintf("user%d", i), fmt.Sprintf("token-%d-aaaaaaaaaaaaaaaaaaaa", i), "android", fmt.Sprintf("device%d", i)))
	}
	require.NoError(t, repo.Register(ctx, "user0", "token-0-bbbbbbbbbbbbbbbbbbbb", "web", "device0b"))

	tokens, userCount, err = repo.ResolveAllTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, userCount)
	assert.Len(t, tokens, 4)
	assert.ElementsMatch(t, []string{
		"token-0-aaaaaaaaaaaaaaaaaaaa",
		"token-0-bbbbbbbbbbbbbbbbbbbb",
		"token-1-aaaaaaaaaaaaaaaaaaaa",
		"token-2-aaaaaaaaaaaaaaaaaaaa",
	}, tokens)
}

func testPruneToken(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))
	require.NoError(t, repo.Register(ctx, "user1", "token-bbbbbbbbbbbbbbbbbbbbbbbb", "web", "device2"))

	// Unknown token is a no-op.
	require.NoError(t, repo.PruneToken(ctx, "token-unknown"))

	devices, err := repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	require.NoError(t, repo.PruneToken(ctx, "token-aaaaaaaaaaaaaaaaaaaaaaaa"))

	devices, err = repo.ListDevices(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "device2", devices[0].DeviceID)

	tokens, err := repo.ResolveTokens(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"token-bbbbbbbbbbbbbbbbbbbbbbbb"}, tokens)
}

func testRemoveStale(t *testing.T, repo TokenRepository) {
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, "user1", "token-aaaaaaaaaaaaaaaaaaaaaaaa", "android", "device1"))
	require.NoError(t, repo.Register(ctx, "user2", "token-bbbbbbbbbbbbbbbbbbbbbbbb", "web", "device2"))

	// Cutoff in the past removes nothing.
	removed, err := repo.RemoveStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	// Cutoff in the future removes everything registered so far.
	removed, err = repo.RemoveStale(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	tokens, userCount, err := repo.ResolveAllTokens(ctx)
	require.NoError(t, err)
	assert.Zero(t, userCount)
	assert.Empty(t, tokens)
}

func TestTokenRepository_Memory(t *testing.T) {
	runRepositoryTests(t, func(t *testing.T) TokenRepository {
		return NewMemoryRepository()
	})
}
