package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/repository"
)

const (
	recentInvoicesLimit = 5
	revenueMonths       = 6
	topClientsLimit     = 5
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardStats represents the session user's invoice summary
type DashboardStats struct {
	TotalInvoices  int64                             `json:"total_invoices"`
	PaidInvoices   int64                             `json:"paid_invoices"`
	OverdueCount   int64                             `json:"overdue_count"`
	TotalRevenue   decimal.Decimal                   `json:"total_revenue"`
	PendingAmount  decimal.Decimal                   `json:"pending_amount"`
	RecentInvoices []entity.Invoice                  `json:"recent_invoices"`
	MonthlyRevenue []repository.MonthlyRevenueResult `json:"monthly_revenue"`
	TopClients     []repository.TopClientResult      `json:"top_clients"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	totals, err := s.analyticsRepo.GetInvoiceStats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.analyticsRepo.GetRecentInvoices(ctx, recentInvoicesLimit)
	if err != nil {
		return nil, err
	}

	monthly, err := s.analyticsRepo.GetMonthlyRevenue(ctx, revenueMonths)
	if err != nil {
		return nil, err
	}

	top, err := s.analyticsRepo.GetTopClients(ctx, topClientsLimit)
	if err != nil {
		return nil, err
	}

	if recent == nil {
		recent = []entity.Invoice{}
	}
	return &DashboardStats{
		TotalInvoices:  totals.TotalInvoices,
		PaidInvoices:   totals.PaidInvoices,
		OverdueCount:   totals.OverdueCount,
		TotalRevenue:   totals.TotalRevenue,
		PendingAmount:  totals.PendingAmount,
		RecentInvoices: recent,
		MonthlyRevenue: monthly,
		TopClients:     top,
	}, nil
}
