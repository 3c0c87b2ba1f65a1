package service

import (
	"fmt"
	"strings"
	"time"

	"user-reminders/internal/model"
)

// Accepted due date layouts: full ISO-8601 with and without offset, and
// plain calendar dates.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const dateOnlyLayout = "2006-01-02"

// NormalizeDue turns a raw due string into an absolute timestamp. An
// empty value defaults to 09:00 tomorrow; a date without a time
// component is promoted to 09:00 on that date. Returns ErrBadDate when
// the string does not parse.
func NormalizeDue(now time.Time, due string) (time.Time, error) {
	due = strings.TrimSpace(due)
	if due == "" {
		tomorrow := now.AddDate(0, 0, 1)
		return atClock(tomorrow, 9, 0), nil
	}
	return parseDue(now.Location(), due)
}

func parseDue(loc *time.Location, due string) (time.Time, error) {
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, due, loc)
		if err != nil {
			continue
		}
		if layout == dateOnlyLayout {
			t = atClock(t, 9, 0)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, due)
}

// decodeRecord turns a raw persisted record into a typed reminder.
// Records with a missing id or a missing or malformed timestamp fail to
// decode; bulk loads drop them with a log line instead of aborting.
func decodeRecord(rec model.ReminderRecord, loc *time.Location) (model.Reminder, error) {
	if rec.ID == "" || rec.Due == "" {
		return model.Reminder{}, fmt.Errorf("%w: record %q has no id or due", ErrBadDate, rec.ID)
	}

	due, err := parseDue(loc, rec.Due)
	if err != nil {
		return model.Reminder{}, err
	}

	var lastFired *time.Time
	if rec.LastFired != "" {
		t, err := parseDue(loc, rec.LastFired)
		if err != nil {
			return model.Reminder{}, err
		}
		lastFired = &t
	}

	return model.Reminder{
		UID:       rec.ID,
		ListID:    rec.ListID,
		Summary:   rec.Summary,
		Due:       due,
		UserID:    rec.UserID,
		LastFired: lastFired,
	}, nil
}
