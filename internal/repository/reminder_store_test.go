package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-reminders/internal/model"
)

func newTestStore(t *testing.T) *ReminderStore {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	return NewReminderStore(db)
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := map[string]model.ReminderRecord{
		"aaa": {ID: "aaa", ListID: "l1", Summary: "first", Due: "2025-03-12T09:00:00Z", UserID: "u1"},
		"bbb": {ID: "bbb", ListID: "l1", Summary: "second", Due: "2025-03-13T09:00:00Z", UserID: "u1", LastFired: "2025-03-11T09:00:00Z"},
	}
	require.NoError(t, store.Save(ctx, records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "first", loaded["aaa"].Summary)
	assert.Equal(t, "2025-03-11T09:00:00Z", loaded["bbb"].LastFired)
}

func TestStoreSaveReplacesCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]model.ReminderRecord{
		"aaa": {ID: "aaa", ListID: "l1", Due: "2025-03-12T09:00:00Z", UserID: "u1"},
	}))
	require.NoError(t, store.Save(ctx, map[string]model.ReminderRecord{
		"bbb": {ID: "bbb", ListID: "l1", Due: "2025-03-13T09:00:00Z", UserID: "u1"},
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Contains(t, loaded, "bbb")
}

func TestStoreLoadEmpty(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
