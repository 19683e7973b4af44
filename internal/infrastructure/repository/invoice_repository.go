package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
)

// sortable invoice columns
var invoiceSortColumns = map[string]string{
	"created_at":     "created_at",
	"issue_date":     "issue_date",
	"due_date":       "due_date",
	"total":          "total",
	"invoice_number": "invoice_number",
	"status":         "status",
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// NewInvoiceReader reads export snapshots from the primary database
func NewInvoiceReader(db *gorm.DB) domainRepo.InvoiceReader {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	session, ok := GetSession(ctx)
	if !ok {
		return ErrNoSession
	}
	invoice.UserID = session.UserID
	err := r.db.WithContext(ctx).Omit("Client").Create(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateInvoiceNumber
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(UserScope(ctx)).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// GetByNumber also finds soft-deleted invoices since their numbers stay reserved
func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Unscoped().Scopes(UserScope(ctx)).First(&invoice, "invoice_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(UserScope(ctx)).
		// invoices keep showing a client that was deleted later
		Preload("Client", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// GetForExport satisfies InvoiceReader from the primary database
func (r *invoiceRepository) GetForExport(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.GetWithDetails(ctx, id)
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(UserScope(ctx)).Model(invoice).
			Select("*").Omit("UserID", "CreatedAt", "Client", "Items").
			Updates(invoice)
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domainRepo.ErrDuplicateInvoiceNumber
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(invoice.Items) == 0 {
			return nil
		}
		for i := range invoice.Items {
			invoice.Items[i].ID = uuid.Nil
			invoice.Items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&invoice.Items).Error
	})
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == enum.InvoiceStatusSent {
		updates["sent_at"] = time.Now()
	}
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(UserScope(ctx)).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *invoiceRepository) UpdatePayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status enum.InvoiceStatus, paidAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(UserScope(ctx)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"paid_amount": paid,
			"status":      status,
			"paid_at":     paidAt,
		}).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(UserScope(ctx)).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(UserScope(ctx))

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR client_id IN (?)", like,
			r.db.Model(&entity.Client{}).Select("id").Scopes(UserScope(ctx)).Where("name ILIKE ?", like))
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if col, ok := invoiceSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Normalize()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order(sortBy + " " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListNumbers(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	// soft-deleted invoices still hold their number
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.Invoice{}).Scopes(UserScope(ctx)).
		Where("invoice_number LIKE ?", escapeLike(prefix)+"%").
		Pluck("invoice_number", &numbers).Error
	return numbers, err
}

func (r *invoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("status = ? AND due_date < ?", enum.InvoiceStatusSent, asOf.Format("2006-01-02")).
		Update("status", enum.InvoiceStatusOverdue)
	return res.RowsAffected, res.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
