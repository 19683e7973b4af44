package service

import (
	"context"
	"time"

	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/logger"
)

const defaultMaintenanceInterval = time.Hour

// MaintenanceService runs periodic housekeeping across all users: overdue
// detection and idempotency key expiry
type MaintenanceService struct {
	invoiceRepo     repository.InvoiceRepository
	idempotencyRepo repository.IdempotencyRepository
	interval        time.Duration
	log             *logger.Logger
	now             func() time.Time
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	invoiceRepo repository.InvoiceRepository,
	idempotencyRepo repository.IdempotencyRepository,
	interval time.Duration,
	log *logger.Logger,
) *MaintenanceService {
	if interval <= 0 {
		interval = defaultMaintenanceInterval
	}
	return &MaintenanceService{
		invoiceRepo:     invoiceRepo,
		idempotencyRepo: idempotencyRepo,
		interval:        interval,
		log:             log.Named("maintenance"),
		now:             time.Now,
	}
}

// MaintenanceResult counts the rows touched by one run
type MaintenanceResult struct {
	MarkedOverdue int64
	ExpiredKeys   int64
}

// Run starts the loop and blocks until ctx is cancelled. One pass runs
// immediately.
func (s *MaintenanceService) Run(ctx context.Context) {
	s.log.Infow("maintenance worker started", "interval", s.interval.String())
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("maintenance worker stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass. A failing step is logged and does not
// prevent the next one.
func (s *MaintenanceService) RunOnce(ctx context.Context) MaintenanceResult {
	var result MaintenanceResult

	overdue, err := s.invoiceRepo.MarkOverdue(ctx, s.now().UTC())
	if err != nil {
		s.log.Errorw("mark overdue failed", "error", err)
	} else {
		result.MarkedOverdue = overdue
	}

	expired, err := s.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		s.log.Errorw("idempotency cleanup failed", "error", err)
	} else {
		result.ExpiredKeys = expired
	}

	if result.MarkedOverdue > 0 || result.ExpiredKeys > 0 {
		s.log.Infow("maintenance pass", "marked_overdue", result.MarkedOverdue, "expired_keys", result.ExpiredKeys)
	}
	return result
}
