package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCountry is stored when a client is created without a country
const DefaultCountry = "USA"

// Client represents a party invoices are billed to
type Client struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	City      *string        `gorm:"size:100" json:"city,omitempty"`
	State     *string        `gorm:"size:100" json:"state,omitempty"`
	ZipCode   *string        `gorm:"size:20;column:zip_code" json:"zip_code,omitempty"`
	Country   string         `gorm:"size:100;default:USA" json:"country"`
	TaxID     *string        `gorm:"size:50;column:tax_id" json:"tax_id,omitempty"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"-"`
}

// BeforeCreate generates a UUID and applies the default country
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Country == "" {
		c.Country = DefaultCountry
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
