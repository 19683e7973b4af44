package request

import "github.com/shopspring/decimal"

// DateLayout is the wire format of invoice dates
const DateLayout = "2006-01-02"

// InvoiceItemRequest represents one line of an invoice
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// InvoiceRequest represents a create or full update invoice request
type InvoiceRequest struct {
	ClientID      *string              `json:"client_id" binding:"omitempty,uuid"`
	InvoiceNumber string               `json:"invoice_number" binding:"max=50"`
	Status        string               `json:"status" binding:"omitempty,invoice_status"`
	IssueDate     string               `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate       string               `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Currency      string               `json:"currency" binding:"omitempty,len=3"`
	TaxRate       decimal.Decimal      `json:"tax_rate"`
	Discount      decimal.Decimal      `json:"discount"`
	DiscountType  string               `json:"discount_type" binding:"omitempty,discount_type"`
	Notes         *string              `json:"notes" binding:"omitempty,max=5000"`
	Terms         *string              `json:"terms" binding:"omitempty,max=5000"`
	Items         []InvoiceItemRequest `json:"items" binding:"dive"`
}

// UpdateStatusRequest represents an invoice status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,invoice_status"`
}

// RecordPaymentRequest represents a payment against an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SendInvoiceRequest represents an e-mail delivery of an invoice
type SendInvoiceRequest struct {
	To      string `json:"to" binding:"omitempty,email"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"max=2000"`
}
