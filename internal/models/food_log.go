package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodLog is one confirmed food entry. Rows are written once per
// confirmation and never updated.
type FoodLog struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	FoodName   string    `gorm:"size:120;not null" json:"food_name"`
	Calories   int       `gorm:"not null;check:calories >= 0" json:"calories"`
	MealType   string    `gorm:"size:20" json:"meal_type"`
	Confidence float64   `json:"confidence"`
	LoggedVia  string    `gorm:"size:20;not null;default:'sms'" json:"logged_via"`
}
