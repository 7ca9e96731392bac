package entity

import (
	"time"

	"gorm.io/datatypes"
)

// User account
type User struct {
	ID           string                      `json:"id" gorm:"primaryKey;size:32"`
	Username     string                      `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string                      `json:"name" gorm:"size:64;not null"`
	Email        string                      `json:"email" gorm:"size:128"`
	PasswordHash string                      `json:"-" gorm:"size:128;not null"`
	Roles        datatypes.JSONSlice[string] `json:"roles"`
	Status       string                      `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time                  `json:"last_login_at"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// User status
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// AllModels every table managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Vessel{},
		&FormDefinition{},
		&FormSubmission{},
		&WorkItem{},
		&Comment{},
		&NCR{},
	}
}
