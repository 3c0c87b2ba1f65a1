package model

import (
	"time"
)

// ReminderRecord is the raw persisted form of a reminder, timestamps as
// ISO-8601 strings. The whole collection is stored and loaded as a
// uid-keyed map of these rows.
type ReminderRecord struct {
	ID        string `gorm:"primaryKey" json:"id"`
	ListID    string `gorm:"index" json:"list_id"`
	Summary   string `json:"summary"`
	Due       string `json:"due"`
	UserID    string `gorm:"index" json:"user_id"`
	LastFired string `json:"last_fired"`
}

func (ReminderRecord) TableName() string {
	return "reminders"
}

// Reminder is a single reminder item with parsed timestamps.
type Reminder struct {
	UID       string
	ListID    string
	Summary   string
	Due       time.Time
	UserID    string
	LastFired *time.Time
}

// Record converts the reminder back to its persisted form.
func (r Reminder) Record() ReminderRecord {
	lastFired := ""
	if r.LastFired != nil {
		lastFired = r.LastFired.Format(time.RFC3339)
	}
	return ReminderRecord{
		ID:        r.UID,
		ListID:    r.ListID,
		Summary:   r.Summary,
		Due:       r.Due.Format(time.RFC3339),
		UserID:    r.UserID,
		LastFired: lastFired,
	}
}
