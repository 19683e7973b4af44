package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/internal/domain/entity"
)

// InvoiceStats aggregates the session user's invoices
type InvoiceStats struct {
	TotalInvoices int64
	PaidInvoices  int64
	// TotalRevenue is the sum of paid amounts
	TotalRevenue decimal.Decimal
	// PendingAmount is total minus paid over non-cancelled invoices
	PendingAmount decimal.Decimal
	OverdueCount  int64
}

// MonthlyRevenueResult is the amount collected on invoices issued in a month
type MonthlyRevenueResult struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopClientResult represents a client's billed and paid totals
type TopClientResult struct {
	ClientID     uuid.UUID       `json:"client_id"`
	ClientName   string          `json:"client_name"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	InvoiceCount int64           `json:"invoice_count"`
}

// AnalyticsRepository defines interface for dashboard aggregation queries
type AnalyticsRepository interface {
	GetInvoiceStats(ctx context.Context) (*InvoiceStats, error)
	// GetRecentInvoices returns the newest invoices with their client
	GetRecentInvoices(ctx context.Context, limit int) ([]entity.Invoice, error)
	// GetMonthlyRevenue returns revenue for the last N months, oldest first
	GetMonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenueResult, error)
	// GetTopClients returns clients ordered by billed total
	GetTopClients(ctx context.Context, limit int) ([]TopClientResult, error)
}
