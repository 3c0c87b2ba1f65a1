package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-reminders/internal/model"
)

func TestNormalizeDue(t *testing.T) {
	now := time.Date(2025, time.March, 10, 17, 45, 0, 0, time.Local)

	t.Run("empty defaults to nine tomorrow", func(t *testing.T) {
		got, err := NormalizeDue(now, "")
		require.NoError(t, err)
		assert.Equal(t, local(2025, time.March, 11, 9, 0), got)
	})

	t.Run("date only promotes to nine", func(t *testing.T) {
		got, err := NormalizeDue(now, "2025-06-01")
		require.NoError(t, err)
		assert.Equal(t, local(2025, time.June, 1, 9, 0), got)
	})

	t.Run("full timestamp kept", func(t *testing.T) {
		got, err := NormalizeDue(now, "2025-06-01T18:30:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 1, 18, 30, 0, 0, time.Local), got)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := NormalizeDue(now, "sometime soon")
		assert.ErrorIs(t, err, ErrBadDate)
	})
}

func TestDecodeRecord(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		fired := time.Date(2025, time.March, 9, 9, 0, 0, 0, time.Local)
		item := model.Reminder{
			UID:       "abc123",
			ListID:    "user_reminders_alice",
			Summary:   "water plants",
			Due:       time.Date(2025, time.March, 12, 9, 0, 0, 0, time.Local),
			UserID:    "u1",
			LastFired: &fired,
		}

		decoded, err := decodeRecord(item.Record(), time.Local)
		require.NoError(t, err)
		assert.Equal(t, item.UID, decoded.UID)
		assert.Equal(t, item.Summary, decoded.Summary)
		assert.True(t, item.Due.Equal(decoded.Due))
		require.NotNil(t, decoded.LastFired)
		assert.True(t, fired.Equal(*decoded.LastFired))
	})

	t.Run("date only due promoted on load", func(t *testing.T) {
		rec := model.ReminderRecord{ID: "abc123", ListID: "l", Due: "2025-03-12", UserID: "u1"}
		decoded, err := decodeRecord(rec, time.Local)
		require.NoError(t, err)
		assert.Equal(t, local(2025, time.March, 12, 9, 0), decoded.Due)
		assert.Nil(t, decoded.LastFired)
	})

	t.Run("missing due fails", func(t *testing.T) {
		_, err := decodeRecord(model.ReminderRecord{ID: "abc123"}, time.Local)
		assert.ErrorIs(t, err, ErrBadDate)
	})

	t.Run("malformed due fails", func(t *testing.T) {
		_, err := decodeRecord(model.ReminderRecord{ID: "abc123", Due: "not-a-date"}, time.Local)
		assert.ErrorIs(t, err, ErrBadDate)
	})

	t.Run("malformed last fired fails", func(t *testing.T) {
		rec := model.ReminderRecord{ID: "abc123", Due: "2025-03-12", LastFired: "yesterday"}
		_, err := decodeRecord(rec, time.Local)
		assert.ErrorIs(t, err, ErrBadDate)
	})
}
