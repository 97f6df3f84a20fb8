package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar-day format used by daily logs.
const DateLayout = "2006-01-02"

// CalorieData is a per-item nutrition map persisted as JSON text
type CalorieData map[string]FoodMacros

// Value implements the driver.Valuer interface
func (d CalorieData) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]FoodMacros(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (d *CalorieData) Scan(value interface{}) error {
	if value == nil {
		*d = CalorieData{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported calorie data type %T", value)
	}

	m := map[string]FoodMacros{}
	if err := json.Unmarshal(bytes, &m); err != nil {
		return err
	}
	*d = m
	return nil
}

// WorkoutLog records whether a user completed the day's workout.
type WorkoutLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_workout_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_workout_user_date" json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `gorm:"type:text" json:"notes"`
}

func (WorkoutLog) TableName() string {
	return "workout_logs"
}

func (l *WorkoutLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ConsumptionLog records the food a user ate on a given day.
type ConsumptionLog struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	UserID        string      `gorm:"size:128;not null;uniqueIndex:idx_consumption_user_date" json:"user_id"`
	Date          string      `gorm:"size:10;not null;uniqueIndex:idx_consumption_user_date" json:"date"`
	CalorieData   CalorieData `gorm:"type:text;not null" json:"calorie_data"`
	TotalCalories float64     `json:"total_calories"`
}

func (ConsumptionLog) TableName() string {
	return "consumption_logs"
}

func (l *ConsumptionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// DefaultCalorieTarget is the daily calorie goal when none is configured.
const DefaultCalorieTarget = 2200

// DailyMetrics is the dashboard summary of one day.
type DailyMetrics struct {
	Date             string  `json:"date"`
	WorkoutCompleted bool    `json:"workout_completed"`
	TotalCalories    float64 `json:"total_calories"`
	CalorieTarget    float64 `json:"calorie_target"`
}
