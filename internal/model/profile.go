package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is a list of strings persisted as JSON text
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported string list type %T", value)
	}

	list := []string{}
	if err := json.Unmarshal(bytes, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// UserProfile holds the onboarding answers of one user. Height is in
// centimetres and weight in kilograms.
type UserProfile struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    string     `gorm:"size:128;not null;uniqueIndex" json:"user_id"`
	Name      string     `gorm:"size:255" json:"name"`
	Email     string     `gorm:"size:255" json:"email"`
	Age       int        `json:"age"`
	Height    float64    `json:"height"`
	Weight    float64    `json:"weight"`
	BMI       float64    `json:"bmi"`
	BodyType  string     `gorm:"size:32" json:"body_type"`
	Goal      string     `gorm:"size:32" json:"goal"`
	MealPref  string     `gorm:"size:32" json:"meal_pref"`
	Allergies StringList `gorm:"type:text;not null" json:"allergies"`
	Exercise  string     `gorm:"size:32" json:"exercise"`
	PushUp    *int       `json:"push_up"`
	PullUp    *int       `json:"pull_up"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
