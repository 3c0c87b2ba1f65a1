package model

import "time"

// User stores an account known to the reminder service. Every user owns
// exactly one reminder list.
type User struct {
	ID         string `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex"`
	ChatID     int64
	Name       string `gorm:"index"`
	ListID     string `gorm:"uniqueIndex"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
