package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/invowise-api/internal/config"
	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/internal/domain/repository/mocks"
	"github.com/sangkips/invowise-api/pkg/apperror"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

func newInvoiceServiceTest() (*InvoiceService, *mocks.InvoiceRepository, *mocks.ClientRepository) {
	invoices := new(mocks.InvoiceRepository)
	clients := new(mocks.ClientRepository)
	svc := NewInvoiceService(invoices, clients, config.InvoiceConfig{
		NumberPrefix:    "INV-",
		DefaultCurrency: "USD",
		DefaultDueDays:  30,
	})
	svc.now = fixedClock
	return svc, invoices, clients
}

func sampleInput() *InvoiceInput {
	return &InvoiceInput{
		TaxRate:  dec("10"),
		Discount: dec("5"),
		Items: []InvoiceItemInput{
			{Description: "Design", Quantity: dec("2"), UnitPrice: dec("50")},
			{Description: "Hosting", Quantity: dec("1"), UnitPrice: dec("25.50")},
		},
	}
}

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestInvoiceService_CreateInvoiceComputesTotals(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()

	invoices.On("ListNumbers", mock.Anything, "INV-").Return([]string{"INV-0001", "INV-0007", "INV-abc"}, nil).Once()
	invoices.On("Create", mock.Anything, mock.AnythingOfType("*entity.Invoice")).Return(nil).Once()

	inv, err := svc.CreateInvoice(userCtx(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "INV-0008", inv.InvoiceNumber)
	assert.Equal(t, enum.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.Equal(t, enum.DiscountTypeAmount, inv.DiscountType)
	assert.Equal(t, "2024-03-15", inv.IssueDate.Format("2006-01-02"))
	assert.Equal(t, "2024-04-14", inv.DueDate.Format("2006-01-02"))

	require.Len(t, inv.Items, 2)
	decEq(t, "100", inv.Items[0].LineTotal)
	decEq(t, "25.5", inv.Items[1].LineTotal)
	assert.Equal(t, 1, inv.Items[1].SortOrder)

	decEq(t, "125.5", inv.Subtotal)
	decEq(t, "12.55", inv.TaxAmount)
	decEq(t, "5", inv.DiscountAmount)
	decEq(t, "133.05", inv.Total)
	invoices.AssertExpectations(t)
}

func TestInvoiceService_CreateInvoicePercentDiscount(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	invoices.On("ListNumbers", mock.Anything, "INV-").Return(nil, nil).Once()
	invoices.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	input := sampleInput()
	input.Discount = dec("10")
	input.DiscountType = enum.DiscountTypePercent

	inv, err := svc.CreateInvoice(userCtx(), input)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	decEq(t, "12.55", inv.DiscountAmount)
	decEq(t, "125.5", inv.Total)
}

func TestInvoiceService_CreateInvoiceWithoutItems(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	invoices.On("ListNumbers", mock.Anything, "INV-").Return(nil, nil).Once()
	invoices.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	inv, err := svc.CreateInvoice(userCtx(), &InvoiceInput{})
	require.NoError(t, err)
	assert.Empty(t, inv.Items)
	assert.True(t, inv.Total.IsZero())
}

func TestInvoiceService_CreateInvoiceNumberTaken(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	invoices.On("GetByNumber", mock.Anything, "INV-0042").Return(&entity.Invoice{ID: uuid.New()}, nil).Once()

	input := sampleInput()
	input.InvoiceNumber = " INV-0042 "
	_, err := svc.CreateInvoice(userCtx(), input)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvoiceDuplicateRace(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	invoices.On("ListNumbers", mock.Anything, "INV-").Return(nil, nil).Once()
	invoices.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateInvoiceNumber).Once()

	_, err := svc.CreateInvoice(userCtx(), sampleInput())
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestInvoiceService_CreateInvoiceValidation(t *testing.T) {
	svc, _, _ := newInvoiceServiceTest()
	issue := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, -1)

	input := &InvoiceInput{
		IssueDate:    &issue,
		DueDate:      &due,
		TaxRate:      dec("101"),
		Discount:     dec("-1"),
		DiscountType: "coupon",
		Currency:     "dollars",
		Items:        []InvoiceItemInput{{Description: " ", Quantity: dec("0"), UnitPrice: dec("-2")}},
	}
	_, err := svc.CreateInvoice(userCtx(), input)
	appErr := apperror.GetAppError(err)
	require.Equal(t, 422, appErr.Code)

	fields := map[string]bool{}
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	for _, f := range []string{"due_date", "tax_rate", "discount", "discount_type", "currency",
		"items[0].description", "items[0].quantity", "items[0].unit_price"} {
		assert.True(t, fields[f], "missing error for %s", f)
	}
}

func TestInvoiceService_CreateInvoiceUnknownClient(t *testing.T) {
	svc, _, clients := newInvoiceServiceTest()
	clientID := uuid.New()
	clients.On("GetByID", mock.Anything, clientID).Return(nil, nil).Once()

	input := sampleInput()
	input.ClientID = &clientID
	_, err := svc.CreateInvoice(userCtx(), input)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.Equal(t, "client_id", appErr.Errors[0].Field)
}

func TestInvoiceService_UpdateInvoice(t *testing.T) {
	svc, invoices, clients := newInvoiceServiceTest()
	id, clientID := uuid.New(), uuid.New()
	existing := &entity.Invoice{ID: id, InvoiceNumber: "INV-0001", Status: enum.InvoiceStatusSent, PaidAmount: dec("20")}

	invoices.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	clients.On("GetByID", mock.Anything, clientID).Return(&entity.Client{ID: clientID, Name: "Acme"}, nil).Once()
	invoices.On("Update", mock.Anything, existing).Return(nil).Once()

	input := sampleInput()
	input.ClientID = &clientID
	input.InvoiceNumber = "INV-0001"

	inv, err := svc.UpdateInvoice(userCtx(), id, input)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, inv.Status)
	assert.Equal(t, "Acme", inv.Client.Name)
	decEq(t, "133.05", inv.Total)
	decEq(t, "20", inv.PaidAmount)
	invoices.AssertExpectations(t)
	invoices.AssertNotCalled(t, "GetByNumber", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateInvoiceBelowPaid(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	id := uuid.New()
	invoices.On("GetByID", mock.Anything, id).Return(&entity.Invoice{ID: id, PaidAmount: dec("500")}, nil).Once()

	_, err := svc.UpdateInvoice(userCtx(), id, sampleInput())
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	invoices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		wantPaid   string
		wantStatus enum.InvoiceStatus
		wantPaidAt bool
	}{
		{"partial payment keeps status", "40", "60", enum.InvoiceStatusSent, false},
		{"settling the balance marks paid", "90", "110", enum.InvoiceStatusPaid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, invoices, _ := newInvoiceServiceTest()
			id := uuid.New()
			inv := &entity.Invoice{ID: id, Status: enum.InvoiceStatusSent, Total: dec("110"), PaidAmount: dec("20")}

			invoices.On("GetByID", mock.Anything, id).Return(inv, nil).Once()
			invoices.On("UpdatePayment", mock.Anything, id,
				mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(tt.wantPaid)) }),
				tt.wantStatus,
				mock.MatchedBy(func(at *time.Time) bool { return (at != nil) == tt.wantPaidAt }),
			).Return(nil).Once()
			invoices.On("GetWithDetails", mock.Anything, id).Return(inv, nil).Once()

			_, err := svc.RecordPayment(userCtx(), id, dec(tt.amount))
			require.NoError(t, err)
			invoices.AssertExpectations(t)
		})
	}
}

func TestInvoiceService_RecordPaymentRejected(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	id := uuid.New()

	_, err := svc.RecordPayment(userCtx(), id, dec("0"))
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	invoices.On("GetByID", mock.Anything, id).Return(&entity.Invoice{ID: id, Status: enum.InvoiceStatusSent, Total: dec("10")}, nil).Once()
	_, err = svc.RecordPayment(userCtx(), id, dec("10.01"))
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	invoices.On("GetByID", mock.Anything, id).Return(&entity.Invoice{ID: id, Status: enum.InvoiceStatusCancelled, Total: dec("10")}, nil).Once()
	_, err = svc.RecordPayment(userCtx(), id, dec("1"))
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	invoices.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateStatus(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	id := uuid.New()
	inv := &entity.Invoice{ID: id, Status: enum.InvoiceStatusSent, Total: dec("110")}

	_, err := svc.UpdateStatus(userCtx(), id, "archived")
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	invoices.On("GetByID", mock.Anything, id).Return(inv, nil).Twice()
	invoices.On("GetWithDetails", mock.Anything, id).Return(inv, nil).Twice()

	invoices.On("UpdateStatus", mock.Anything, id, enum.InvoiceStatusCancelled).Return(nil).Once()
	_, err = svc.UpdateStatus(userCtx(), id, enum.InvoiceStatusCancelled)
	require.NoError(t, err)

	invoices.On("UpdatePayment", mock.Anything, id, inv.Total, enum.InvoiceStatusPaid, mock.Anything).Return(nil).Once()
	_, err = svc.UpdateStatus(userCtx(), id, enum.InvoiceStatusPaid)
	require.NoError(t, err)
	invoices.AssertExpectations(t)
}

func TestInvoiceService_ListInvoices(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()

	_, err := svc.ListInvoices(userCtx(), &ListInvoicesInput{Status: "archived"})
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	invoices.On("List", mock.Anything, mock.MatchedBy(func(p *repository.InvoiceFilterParams) bool {
		return p.Status != nil && *p.Status == enum.InvoiceStatusPaid && p.Search == "acme"
	})).Return([]entity.Invoice{{InvoiceNumber: "INV-0001"}}, int64(1), nil).Once()

	res, err := svc.ListInvoices(userCtx(), &ListInvoicesInput{
		Pagination: &pagination.Params{Page: 1, PerPage: 10},
		Status:     "PAID",
		Search:     " acme ",
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), *res.Total)
}

func TestInvoiceService_DeleteInvoice(t *testing.T) {
	svc, invoices, _ := newInvoiceServiceTest()
	id := uuid.New()

	invoices.On("GetByID", mock.Anything, id).Return(nil, nil).Once()
	err := svc.DeleteInvoice(userCtx(), id)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	invoices.On("GetByID", mock.Anything, id).Return(&entity.Invoice{ID: id}, nil).Once()
	invoices.On("Delete", mock.Anything, id).Return(nil).Once()
	require.NoError(t, svc.DeleteInvoice(userCtx(), id))
	invoices.AssertExpectations(t)
}
