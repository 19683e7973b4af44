package repository

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

// ErrDuplicateInvoiceNumber is returned when the user already has an invoice
// with the same number
var ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

// InvoiceRepository defines the interface for invoice data operations.
// Every method except MarkOverdue is scoped to the session user carried by ctx.
type InvoiceRepository interface {
	// Create stores the invoice together with its items
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	// GetWithDetails loads the client and the items ordered by sort_order
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// Update saves the invoice and replaces its items
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	UpdatePayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status enum.InvoiceStatus, paidAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListNumbers returns the invoice numbers starting with prefix
	ListNumbers(ctx context.Context, prefix string) ([]string, error)
	// MarkOverdue moves every sent invoice due before asOf to overdue, for all users
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.Params
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// InvoiceReader loads a fully resolved invoice for document export
type InvoiceReader interface {
	GetForExport(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
}
