package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*entity.Client)
	return client, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ClientRepository) List(ctx context.Context, params *pagination.Params, search string) ([]entity.Client, int64, error) {
	args := m.Called(ctx, params, search)
	clients, _ := args.Get(0).([]entity.Client)
	return clients, args.Get(1).(int64), args.Error(2)
}

func (m *ClientRepository) ListWithCursor(ctx context.Context, params *pagination.Params, search string) ([]entity.Client, error) {
	args := m.Called(ctx, params, search)
	clients, _ := args.Get(0).([]entity.Client)
	return clients, args.Error(1)
}

type InvoiceRepository struct {
	mock.Mock
}

func (m *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	invoice, _ := args.Get(0).(*entity.Invoice)
	return invoice, args.Error(1)
}

func (m *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	args := m.Called(ctx, number)
	invoice, _ := args.Get(0).(*entity.Invoice)
	return invoice, args.Error(1)
}

func (m *InvoiceRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	invoice, _ := args.Get(0).(*entity.Invoice)
	return invoice, args.Error(1)
}

func (m *InvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *InvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *InvoiceRepository) UpdatePayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status enum.InvoiceStatus, paidAt *time.Time) error {
	args := m.Called(ctx, id, paid, status, paidAt)
	return args.Error(0)
}

func (m *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *InvoiceRepository) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	args := m.Called(ctx, params)
	invoices, _ := args.Get(0).([]entity.Invoice)
	return invoices, args.Get(1).(int64), args.Error(2)
}

func (m *InvoiceRepository) ListNumbers(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	numbers, _ := args.Get(0).([]string)
	return numbers, args.Error(1)
}

func (m *InvoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type InvoiceReader struct {
	mock.Mock
}

func (m *InvoiceReader) GetForExport(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	invoice, _ := args.Get(0).(*entity.Invoice)
	return invoice, args.Error(1)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	profile, _ := args.Get(0).(*entity.Profile)
	return profile, args.Error(1)
}

func (m *ProfileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type AnalyticsRepository struct {
	mock.Mock
}

func (m *AnalyticsRepository) GetInvoiceStats(ctx context.Context) (*repository.InvoiceStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*repository.InvoiceStats)
	return stats, args.Error(1)
}

func (m *AnalyticsRepository) GetRecentInvoices(ctx context.Context, limit int) ([]entity.Invoice, error) {
	args := m.Called(ctx, limit)
	invoices, _ := args.Get(0).([]entity.Invoice)
	return invoices, args.Error(1)
}

func (m *AnalyticsRepository) GetMonthlyRevenue(ctx context.Context, months int) ([]repository.MonthlyRevenueResult, error) {
	args := m.Called(ctx, months)
	results, _ := args.Get(0).([]repository.MonthlyRevenueResult)
	return results, args.Error(1)
}

func (m *AnalyticsRepository) GetTopClients(ctx context.Context, limit int) ([]repository.TopClientResult, error) {
	args := m.Called(ctx, limit)
	results, _ := args.Get(0).([]repository.TopClientResult)
	return results, args.Error(1)
}

type IdempotencyRepository struct {
	mock.Mock
}

func (m *IdempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	args := m.Called(ctx, key, userID)
	ikey, _ := args.Get(0).(*entity.IdempotencyKey)
	return ikey, args.Error(1)
}

func (m *IdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	args := m.Called(ctx, ikey)
	return args.Error(0)
}

func (m *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type AuthProvider struct {
	mock.Mock
}

func (m *AuthProvider) SignUp(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *AuthProvider) SignIn(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	tokens, _ := args.Get(0).(*entity.AuthTokens)
	return tokens, args.Error(1)
}

func (m *AuthProvider) Refresh(ctx context.Context, accessToken, refreshToken string) (*entity.AuthTokens, error) {
	args := m.Called(ctx, accessToken, refreshToken)
	tokens, _ := args.Get(0).(*entity.AuthTokens)
	return tokens, args.Error(1)
}

func (m *AuthProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

var (
	_ repository.ClientRepository      = (*ClientRepository)(nil)
	_ repository.InvoiceRepository     = (*InvoiceRepository)(nil)
	_ repository.InvoiceReader         = (*InvoiceReader)(nil)
	_ repository.ProfileRepository     = (*ProfileRepository)(nil)
	_ repository.AnalyticsRepository   = (*AnalyticsRepository)(nil)
	_ repository.IdempotencyRepository = (*IdempotencyRepository)(nil)
	_ repository.AuthProvider          = (*AuthProvider)(nil)
)
