package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	return NewUserRepository(db)
}

func TestUpsertFromTelegram(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	created, err := repo.UpsertFromTelegram(ctx, 42, 1000, "Alice Smith")
	require.NoError(t, err)
	assert.Len(t, created.ID, 32)
	assert.Equal(t, "user_reminders_alice_smith", created.ListID)
	assert.Equal(t, int64(1000), created.ChatID)

	// Same telegram id updates the profile, keeps id and list.
	updated, err := repo.UpsertFromTelegram(ctx, 42, 2000, "Alice S")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.ListID, updated.ListID)

	found, err := repo.FindByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), found.ChatID)
	assert.Equal(t, "Alice S", found.Name)
}

func TestUserLookups(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	alice, err := repo.UpsertFromTelegram(ctx, 1, 100, "Alice")
	require.NoError(t, err)

	byID, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.TelegramID, byID.TelegramID)

	byName, err := repo.FindByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byList, err := repo.FindByListID(ctx, alice.ListID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byList.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.Error(t, err)
}

func TestListIDForName(t *testing.T) {
	assert.Equal(t, "user_reminders_alice", ListIDForName("Alice"))
	assert.Equal(t, "user_reminders_alice_smith", ListIDForName("  Alice   Smith "))
	assert.Equal(t, "user_reminders_", ListIDForName(""))
}
