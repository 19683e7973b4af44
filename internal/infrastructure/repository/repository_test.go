package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func sessionCtx(userID uuid.UUID) context.Context {
	return WithSession(context.Background(), &entity.Session{UserID: userID, Email: "owner@invowise.test"})
}

func TestGetSession(t *testing.T) {
	_, ok := GetSession(context.Background())
	assert.False(t, ok)

	_, ok = GetSession(WithSession(context.Background(), &entity.Session{}))
	assert.False(t, ok, "session without a user is not valid")

	id := uuid.New()
	s, ok := GetSession(sessionCtx(id))
	require.True(t, ok)
	assert.Equal(t, id, s.UserID)
}

func TestClientRepository_FailsClosedWithoutSession(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE .*1 = 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	client, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, client)

	err = repo.Create(context.Background(), &entity.Client{Name: "Acme"})
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)
	userID, clientID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE .*user_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "country"}).
			AddRow(clientID.String(), userID.String(), "Acme Co", "USA"))

	client, err := repo.GetByID(sessionCtx(userID), clientID)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "Acme Co", client.Name)
	assert.Equal(t, "USA", client.Country)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE .*name ILIKE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE .*ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(uuid.NewString(), userID.String(), "Acme").
			AddRow(uuid.NewString(), userID.String(), "Acorn"))

	params := &pagination.Params{Page: 1, PerPage: 10}
	clients, total, err := repo.List(sessionCtx(userID), params, "ac")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, clients, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpdateReplacesItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)
	userID := uuid.New()
	inv := &entity.Invoice{ID: uuid.New(), UserID: userID, InvoiceNumber: "INV-0001"}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invoices" SET .*WHERE .*user_id = `).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "invoice_items" WHERE invoice_id = `).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(sessionCtx(userID), inv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpdateOtherUsersInvoice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)
	inv := &entity.Invoice{ID: uuid.New(), InvoiceNumber: "INV-0001"}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invoices"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(sessionCtx(uuid.New()), inv)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_ListNumbers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectQuery(`SELECT "invoice_number" FROM "invoices" WHERE invoice_number LIKE`).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number"}).AddRow("INV-0001").AddRow("INV-0002"))

	numbers, err := repo.ListNumbers(sessionCtx(uuid.New()), "INV-")
	require.NoError(t, err)
	assert.Equal(t, []string{"INV-0001", "INV-0002"}, numbers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_MarkOverdue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectExec(`UPDATE "invoices" SET "status"=.*due_date < `).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `INV\_%`, escapeLike("INV_")+"%")
	assert.Equal(t, `100\%`, escapeLike("100%"))
}

func TestAnalyticsRepository_GetInvoiceStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery(`FROM invoices\s+WHERE user_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"total_invoices", "paid_invoices", "overdue_count", "total_revenue", "pending_amount"}).
			AddRow(4, 1, 1, "150.00", "320.50"))

	stats, err := repo.GetInvoiceStats(sessionCtx(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalInvoices)
	assert.Equal(t, int64(1), stats.PaidInvoices)
	assert.Equal(t, "150", stats.TotalRevenue.String())
	assert.Equal(t, "320.5", stats.PendingAmount.String())
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = repo.GetInvoiceStats(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAnalyticsRepository_GetMonthlyRevenueFillsGaps(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)
	thisMonth := time.Now().UTC().Format("2006-01")

	mock.ExpectQuery(`date_trunc\('month', issue_date\)`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "revenue"}).AddRow(thisMonth, "99.90"))

	results, err := repo.GetMonthlyRevenue(sessionCtx(uuid.New()), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Revenue.IsZero())
	assert.True(t, results[1].Revenue.IsZero())
	assert.Equal(t, thisMonth, results[2].Month)
	assert.Equal(t, "99.9", results[2].Revenue.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIdempotencyRepository(db)

	mock.ExpectExec(`DELETE FROM "idempotency_keys" WHERE expires_at < `).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
