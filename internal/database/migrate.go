package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/fitcoach/backend/internal/model"
)

// Migrate creates or updates the daily-log tables with their
// (user_id, date) unique indexes, and the profile table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.WorkoutLog{}, &model.ConsumptionLog{}); err != nil {
		return fmt.Errorf("failed to migrate daily logs: %w", err)
	}
	if err := db.AutoMigrate(&model.UserProfile{}); err != nil {
		return fmt.Errorf("failed to migrate user profiles: %w", err)
	}
	return nil
}
