package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors an account of the hosted auth. ID is the auth user id.
type Profile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email       string     `gorm:"size:255;not null;index" json:"email"`
	FullName    *string    `gorm:"size:255" json:"full_name,omitempty"`
	CompanyName *string    `gorm:"size:255" json:"company_name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
