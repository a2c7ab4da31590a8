package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account behind a phone number. Accounts are created through
// the mobile app; the gateway only resolves them, unless auto-provisioning
// is enabled.
type User struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:100" json:"name"`
	PhoneNumber string         `gorm:"size:20;uniqueIndex;not null" json:"phone_number"`
}
