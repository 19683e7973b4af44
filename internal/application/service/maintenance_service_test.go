package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sangkips/invowise-api/internal/domain/repository/mocks"
	"github.com/sangkips/invowise-api/pkg/logger"
)

func TestMaintenanceService_RunOnce(t *testing.T) {
	invoices := new(mocks.InvoiceRepository)
	keys := new(mocks.IdempotencyRepository)
	svc := NewMaintenanceService(invoices, keys, time.Minute, logger.NewNop())
	svc.now = fixedClock

	invoices.On("MarkOverdue", mock.Anything, fixedNow).Return(int64(3), nil).Once()
	keys.On("DeleteExpired", mock.Anything).Return(int64(7), nil).Once()

	res := svc.RunOnce(context.Background())
	assert.Equal(t, MaintenanceResult{MarkedOverdue: 3, ExpiredKeys: 7}, res)
	invoices.AssertExpectations(t)
	keys.AssertExpectations(t)
}

func TestMaintenanceService_RunOnceContinuesAfterFailure(t *testing.T) {
	invoices := new(mocks.InvoiceRepository)
	keys := new(mocks.IdempotencyRepository)
	svc := NewMaintenanceService(invoices, keys, 0, logger.NewNop())
	assert.Equal(t, defaultMaintenanceInterval, svc.interval)

	invoices.On("MarkOverdue", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	keys.On("DeleteExpired", mock.Anything).Return(int64(2), nil).Once()

	res := svc.RunOnce(context.Background())
	assert.Equal(t, int64(0), res.MarkedOverdue)
	assert.Equal(t, int64(2), res.ExpiredKeys)
}

func TestMaintenanceService_RunStopsOnCancel(t *testing.T) {
	invoices := new(mocks.InvoiceRepository)
	keys := new(mocks.IdempotencyRepository)
	svc := NewMaintenanceService(invoices, keys, time.Hour, logger.NewNop())

	started := make(chan struct{})
	invoices.On("MarkOverdue", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(started) }).
		Return(int64(0), nil).Once()
	keys.On("DeleteExpired", mock.Anything).Return(int64(0), nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker did not run the first pass")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
