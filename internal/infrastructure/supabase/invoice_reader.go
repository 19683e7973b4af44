package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	supa "github.com/nedpals/supabase-go"
	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/internal/infrastructure/repository"
)

const (
	dateLayout   = "2006-01-02"
	exportSelect = "*, clients(*), invoice_items(*)"
)

// selectFunc runs the export query and decodes the matching rows into out
type selectFunc func(ctx context.Context, id, userID string, out *[]invoiceRow) error

type invoiceReader struct {
	query selectFunc
}

// NewInvoiceReader reads export snapshots through the hosted REST interface
func NewInvoiceReader(client *supa.Client) domainRepo.InvoiceReader {
	return &invoiceReader{
		query: func(ctx context.Context, id, userID string, out *[]invoiceRow) error {
			return client.DB.From("invoices").
				Select(exportSelect).
				Eq("id", id).
				Eq("user_id", userID).
				ExecuteWithContext(ctx, out)
		},
	}
}

type invoiceRow struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ClientID       *string         `json:"client_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	Status         string          `json:"status"`
	IssueDate      string          `json:"issue_date"`
	DueDate        string          `json:"due_date"`
	Currency       string          `json:"currency"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   string          `json:"discount_type"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Notes          *string         `json:"notes"`
	Terms          *string         `json:"terms"`
	DeletedAt      *string         `json:"deleted_at"`
	// embedded relation; an object, a one element array or null
	Clients json.RawMessage `json:"clients"`
	Items   []itemRow       `json:"invoice_items"`
}

type itemRow struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	SortOrder   int             `json:"sort_order"`
}

type clientRow struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
	Country string  `json:"country"`
	TaxID   *string `json:"tax_id"`
}

func (r *invoiceReader) GetForExport(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	session, ok := repository.GetSession(ctx)
	if !ok {
		return nil, repository.ErrNoSession
	}

	var rows []invoiceRow
	if err := r.query(ctx, id.String(), session.UserID.String(), &rows); err != nil {
		return nil, errors.Wrap(err, "failed to load invoice")
	}
	for i := range rows {
		if rows[i].DeletedAt != nil {
			continue
		}
		return rows[i].toEntity()
	}
	return nil, nil
}

func (row *invoiceRow) toEntity() (*entity.Invoice, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid invoice id")
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid user id")
	}
	issue, err := parseDate(row.IssueDate)
	if err != nil {
		return nil, errors.Wrap(err, "invalid issue date")
	}
	due, err := parseDate(row.DueDate)
	if err != nil {
		return nil, errors.Wrap(err, "invalid due date")
	}

	invoice := &entity.Invoice{
		ID:             id,
		UserID:         userID,
		InvoiceNumber:  row.InvoiceNumber,
		Status:         enum.InvoiceStatus(row.Status),
		IssueDate:      issue,
		DueDate:        due,
		Currency:       row.Currency,
		TaxRate:        row.TaxRate,
		Discount:       row.Discount,
		DiscountType:   enum.DiscountType(row.DiscountType),
		Subtotal:       row.Subtotal,
		TaxAmount:      row.TaxAmount,
		DiscountAmount: row.DiscountAmount,
		Total:          row.Total,
		PaidAmount:     row.PaidAmount,
		Notes:          row.Notes,
		Terms:          row.Terms,
	}
	if row.ClientID != nil {
		if cid, err := uuid.Parse(*row.ClientID); err == nil {
			invoice.ClientID = &cid
		}
	}

	client, err := decodeClient(row.Clients)
	if err != nil {
		return nil, err
	}
	if client != nil {
		invoice.Client = client.toEntity(userID)
	}

	items := make([]itemRow, len(row.Items))
	copy(items, row.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	invoice.Items = make([]entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		itemID, _ := uuid.Parse(it.ID)
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			ID:          itemID,
			InvoiceID:   id,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
			SortOrder:   it.SortOrder,
		})
	}
	return invoice, nil
}

// decodeClient accepts the embedded client as an object, an array or null
func decodeClient(raw json.RawMessage) (*clientRow, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []clientRow
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, errors.Wrap(err, "invalid client relation")
		}
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	}
	var c clientRow
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "invalid client relation")
	}
	return &c, nil
}

func (c *clientRow) toEntity(userID uuid.UUID) *entity.Client {
	id, _ := uuid.Parse(c.ID)
	return &entity.Client{
		ID:      id,
		UserID:  userID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		State:   c.State,
		ZipCode: c.ZipCode,
		Country: c.Country,
		TaxID:   c.TaxID,
	}
}

func parseDate(s string) (time.Time, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}
