package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores the first response to a keyed write so retries replay it
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_user_key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
