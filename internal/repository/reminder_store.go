package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"user-reminders/internal/model"
)

// ReminderStore persists the reminder collection as one document: Load
// returns the whole uid-keyed map, Save replaces it. Mutations are
// expected to read, merge and write the full map back.
type ReminderStore struct {
	db *gorm.DB
}

func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

// Load reads every persisted reminder record keyed by uid.
func (s *ReminderStore) Load(ctx context.Context) (map[string]model.ReminderRecord, error) {
	var rows []model.ReminderRecord
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	records := make(map[string]model.ReminderRecord, len(rows))
	for _, row := range rows {
		records[row.ID] = row
	}
	return records, nil
}

// Save replaces the persisted collection with the passed mapping. The
// swap runs in a single transaction so a save always reflects the
// complete map.
func (s *ReminderStore) Save(ctx context.Context, records map[string]model.ReminderRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ReminderRecord{}).Error; err != nil {
			return err
		}
		for _, record := range records {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save reminders: %w", err)
	}
	return nil
}
