package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetInvoiceStats(ctx context.Context) (*domainRepo.InvoiceStats, error) {
	session, ok := GetSession(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	var row struct {
		TotalInvoices int64
		PaidInvoices  int64
		OverdueCount  int64
		TotalRevenue  decimal.Decimal
		PendingAmount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_invoices,
			COUNT(*) FILTER (WHERE status = ?) AS paid_invoices,
			COUNT(*) FILTER (WHERE status = ?) AS overdue_count,
			COALESCE(SUM(paid_amount), 0) AS total_revenue,
			COALESCE(SUM(total - paid_amount) FILTER (WHERE status <> ?), 0) AS pending_amount
		FROM invoices
		WHERE user_id = ? AND deleted_at IS NULL
	`, enum.InvoiceStatusPaid, enum.InvoiceStatusOverdue, enum.InvoiceStatusCancelled, session.UserID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.InvoiceStats{
		TotalInvoices: row.TotalInvoices,
		PaidInvoices:  row.PaidInvoices,
		OverdueCount:  row.OverdueCount,
		TotalRevenue:  row.TotalRevenue,
		PendingAmount: row.PendingAmount,
	}, nil
}

func (r *analyticsRepository) GetRecentInvoices(ctx context.Context, limit int) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).Scopes(UserScope(ctx)).
		Preload("Client", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, months int) ([]domainRepo.MonthlyRevenueResult, error) {
	session, ok := GetSession(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var rows []domainRepo.MonthlyRevenueResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(date_trunc('month', issue_date), 'YYYY-MM') AS month,
			COALESCE(SUM(paid_amount), 0) AS revenue
		FROM invoices
		WHERE user_id = ? AND deleted_at IS NULL AND issue_date >= ?
		GROUP BY 1
	`, session.UserID, start.Format("2006-01-02")).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Revenue
	}

	// every month is present, including those without invoices
	results := make([]domainRepo.MonthlyRevenueResult, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		revenue, ok := byMonth[month]
		if !ok {
			revenue = decimal.Zero
		}
		results = append(results, domainRepo.MonthlyRevenueResult{Month: month, Revenue: revenue})
	}
	return results, nil
}

func (r *analyticsRepository) GetTopClients(ctx context.Context, limit int) ([]domainRepo.TopClientResult, error) {
	session, ok := GetSession(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	var results []domainRepo.TopClientResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS client_id,
			c.name AS client_name,
			COALESCE(SUM(i.total), 0) AS total_billed,
			COALESCE(SUM(i.paid_amount), 0) AS total_paid,
			COUNT(i.id) AS invoice_count
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.user_id = ? AND i.deleted_at IS NULL AND i.status <> ?
		GROUP BY c.id, c.name
		ORDER BY total_billed DESC
		LIMIT ?
	`, session.UserID, enum.InvoiceStatusCancelled, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
