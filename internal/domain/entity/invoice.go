package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/invowise-api/internal/domain/enum"
)

// Invoice is a bill issued by a user to one of their clients. The monetary
// columns are derived when the invoice is written and never recomputed on read.
type Invoice struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_user_number" json:"user_id"`
	ClientID       *uuid.UUID         `gorm:"type:uuid;index" json:"client_id,omitempty"`
	InvoiceNumber  string             `gorm:"size:50;not null;uniqueIndex:idx_invoices_user_number" json:"invoice_number"`
	Status         enum.InvoiceStatus `gorm:"size:20;not null;default:draft;index" json:"status"`
	IssueDate      time.Time          `gorm:"type:date;not null" json:"issue_date"`
	DueDate        time.Time          `gorm:"type:date;not null" json:"due_date"`
	Currency       string             `gorm:"size:3;not null;default:USD" json:"currency"`
	TaxRate        decimal.Decimal    `gorm:"type:numeric(5,2);not null;default:0" json:"tax_rate"`
	Discount       decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	DiscountType   enum.DiscountType  `gorm:"size:10;not null;default:amount" json:"discount_type"`
	Subtotal       decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"subtotal"`
	TaxAmount      decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"tax_amount"`
	DiscountAmount decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	Total          decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	PaidAmount     decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"paid_amount"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`
	Terms          *string            `gorm:"type:text" json:"terms,omitempty"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Client *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// BalanceDue is the unpaid remainder, never below zero
func (i *Invoice) BalanceDue() decimal.Decimal {
	balance := i.Total.Sub(i.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// IsOverdue reports whether an open invoice has passed its due date at now
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status != enum.InvoiceStatusSent {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := i.DueDate.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Before(today)
}

// InvoiceItem represents a line item of an invoice
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"tax_rate"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
