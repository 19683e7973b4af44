package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/internal/config"
	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/apperror"
	"github.com/sangkips/invowise-api/pkg/money"
	"github.com/sangkips/invowise-api/pkg/pagination"
	"github.com/sangkips/invowise-api/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	cfg         config.InvoiceConfig
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository, cfg config.InvoiceConfig) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// InvoiceItemInput represents one line of an invoice
type InvoiceItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// InvoiceInput represents the create and update invoice input. Update
// replaces the whole invoice including its items.
type InvoiceInput struct {
	ClientID      *uuid.UUID
	InvoiceNumber string
	Status        enum.InvoiceStatus
	IssueDate     *time.Time
	DueDate       *time.Time
	Currency      string
	TaxRate       decimal.Decimal
	Discount      decimal.Decimal
	DiscountType  enum.DiscountType
	Notes         *string
	Terms         *string
	Items         []InvoiceItemInput
}

// ListInvoicesInput contains the invoice list filters
type ListInvoicesInput struct {
	Pagination *pagination.Params
	Search     string
	Status     string
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// CreateInvoice validates the input, derives all amounts and stores the invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *InvoiceInput) (*entity.Invoice, error) {
	invoice := &entity.Invoice{Status: enum.InvoiceStatusDraft}
	if err := s.apply(ctx, invoice, input); err != nil {
		return nil, err
	}

	number := strings.TrimSpace(input.InvoiceNumber)
	if number == "" {
		existing, err := s.invoiceRepo.ListNumbers(ctx, s.cfg.NumberPrefix)
		if err != nil {
			return nil, err
		}
		number = utils.NextInvoiceNumber(s.cfg.NumberPrefix, existing)
	} else if err := s.ensureNumberFree(ctx, number, uuid.Nil); err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, mapInvoiceError(err)
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice with its client and items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists the session user's invoices, newest first by default
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.Result[entity.Invoice], error) {
	if input.Pagination == nil {
		input.Pagination = &pagination.Params{}
	}
	input.Pagination.Normalize()

	params := &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     strings.TrimSpace(input.Search),
		ClientID:   input.ClientID,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}
	if input.Status != "" {
		status, err := enum.ParseInvoiceStatus(input.Status)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid status filter")
		}
		params.Status = &status
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.FromPage(invoices, input.Pagination.Page, input.Pagination.PerPage, total), nil
}

// UpdateInvoice replaces the invoice fields and items and recomputes totals
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *InvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if number := strings.TrimSpace(input.InvoiceNumber); number != "" && number != invoice.InvoiceNumber {
		if err := s.ensureNumberFree(ctx, number, invoice.ID); err != nil {
			return nil, err
		}
		invoice.InvoiceNumber = number
	}
	if err := s.apply(ctx, invoice, input); err != nil {
		return nil, err
	}
	if invoice.Total.LessThan(invoice.PaidAmount) {
		return nil, apperror.NewBadRequestError("Invoice total cannot be less than the amount already paid")
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, mapInvoiceError(err)
	}
	return invoice, nil
}

// UpdateStatus moves an invoice to another status. Marking it paid settles
// the full balance.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) (*entity.Invoice, error) {
	if !status.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid invoice status")
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if status == enum.InvoiceStatusPaid {
		now := s.now()
		err = s.invoiceRepo.UpdatePayment(ctx, id, invoice.Total, status, &now)
	} else {
		err = s.invoiceRepo.UpdateStatus(ctx, id, status)
	}
	if err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, id)
}

// RecordPayment adds amount to the paid total. Reaching the invoice total
// marks the invoice paid.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.Invoice, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount", Message: "Amount must be greater than zero"}})
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status == enum.InvoiceStatusCancelled {
		return nil, apperror.NewBadRequestError("Cannot record a payment on a cancelled invoice")
	}

	amount = amount.Round(money.Places)
	if amount.GreaterThan(invoice.BalanceDue()) {
		return nil, apperror.NewBadRequestError("Payment exceeds the balance due")
	}

	paid := invoice.PaidAmount.Add(amount)
	status := invoice.Status
	var paidAt *time.Time
	if paid.GreaterThanOrEqual(invoice.Total) {
		now := s.now()
		status, paidAt = enum.InvoiceStatusPaid, &now
	}

	if err := s.invoiceRepo.UpdatePayment(ctx, id, paid, status, paidAt); err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, id)
}

// DeleteInvoice soft deletes an invoice. Its number stays reserved.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// apply validates input and copies it onto invoice together with the
// derived line totals and invoice totals
func (s *InvoiceService) apply(ctx context.Context, invoice *entity.Invoice, input *InvoiceInput) error {
	var fieldErrors []apperror.FieldError
	fail := func(field, msg string) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: msg})
	}

	if input.Status != "" {
		if !input.Status.IsValid() {
			fail("status", "Invalid invoice status")
		}
		invoice.Status = input.Status
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = enum.DiscountTypeAmount
	}
	if !discountType.IsValid() {
		fail("discount_type", "Discount type must be amount or percent")
	}

	issue := s.today()
	if input.IssueDate != nil {
		issue = dateOnly(*input.IssueDate)
	}
	due := issue.AddDate(0, 0, s.cfg.DefaultDueDays)
	if input.DueDate != nil {
		due = dateOnly(*input.DueDate)
	}
	if due.Before(issue) {
		fail("due_date", "Due date cannot be before the issue date")
	}

	if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(hundred) {
		fail("tax_rate", "Tax rate must be between 0 and 100")
	}
	if input.Discount.IsNegative() {
		fail("discount", "Discount cannot be negative")
	}
	if discountType.IsPercent() && input.Discount.GreaterThan(hundred) {
		fail("discount", "Percent discount cannot exceed 100")
	}

	for i, item := range input.Items {
		if strings.TrimSpace(item.Description) == "" {
			fail(itemField(i, "description"), "Description is required")
		}
		if !item.Quantity.IsPositive() {
			fail(itemField(i, "quantity"), "Quantity must be greater than zero")
		}
		if item.UnitPrice.IsNegative() {
			fail(itemField(i, "unit_price"), "Unit price cannot be negative")
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	if len(currency) != 3 {
		fail("currency", "Currency must be a 3 letter code")
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	invoice.Client = nil
	invoice.ClientID = input.ClientID
	if input.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, *input.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return apperror.NewValidationError([]apperror.FieldError{{Field: "client_id", Message: "Client not found"}})
		}
		invoice.Client = client
	}

	invoice.IssueDate = issue
	invoice.DueDate = due
	invoice.Currency = currency
	invoice.TaxRate = input.TaxRate
	invoice.Discount = input.Discount
	invoice.DiscountType = discountType
	invoice.Notes = input.Notes
	invoice.Terms = input.Terms

	invoice.Items = lo.Map(input.Items, func(item InvoiceItemInput, i int) entity.InvoiceItem {
		return entity.InvoiceItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			LineTotal:   money.LineTotal(item.Quantity, item.UnitPrice).Round(money.Places),
			SortOrder:   i,
		}
	})

	totals := money.Calculate(money.Input{
		Subtotal: money.Subtotal(lo.Map(invoice.Items, func(item entity.InvoiceItem, _ int) decimal.Decimal {
			return item.LineTotal
		})...),
		TaxRate:         invoice.TaxRate,
		Discount:        invoice.Discount,
		PercentDiscount: discountType.IsPercent(),
	})
	invoice.Subtotal = totals.Subtotal
	invoice.TaxAmount = totals.TaxAmount
	invoice.DiscountAmount = totals.DiscountAmount
	invoice.Total = totals.Total
	return nil
}

func (s *InvoiceService) ensureNumberFree(ctx context.Context, number string, self uuid.UUID) error {
	existing, err := s.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Invoice number already exists")
	}
	return nil
}

func (s *InvoiceService) today() time.Time {
	return dateOnly(s.now())
}

func mapInvoiceError(err error) error {
	if errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
		return apperror.NewConflictError("Invoice number already exists")
	}
	return err
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}
