package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/apperror"
	"github.com/sangkips/invowise-api/pkg/email"
	"github.com/sangkips/invowise-api/pkg/invoicepdf"
	"github.com/sangkips/invowise-api/pkg/logger"
)

// Mailer delivers invoice e-mails
type Mailer interface {
	email.Sender
	IsEnabled() bool
}

// DocumentService renders invoices to PDF and e-mails them
type DocumentService struct {
	reader      repository.InvoiceReader
	invoiceRepo repository.InvoiceRepository
	renderer    *invoicepdf.Renderer
	mailer      Mailer
	appName     string
	log         *logger.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	reader repository.InvoiceReader,
	invoiceRepo repository.InvoiceRepository,
	renderer *invoicepdf.Renderer,
	mailer Mailer,
	appName string,
	log *logger.Logger,
) *DocumentService {
	return &DocumentService{
		reader:      reader,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		mailer:      mailer,
		appName:     appName,
		log:         log.Named("document"),
	}
}

// ExportPDF renders the invoice as a downloadable PDF
func (s *DocumentService) ExportPDF(ctx context.Context, id uuid.UUID) (*invoicepdf.Artifact, error) {
	_, artifact, err := s.render(ctx, id)
	return artifact, err
}

// SendInvoiceInput represents the send invoice input
type SendInvoiceInput struct {
	InvoiceID uuid.UUID
	// To overrides the client's e-mail address
	To      string
	Subject string
	Message string
}

// SendInvoiceOutput describes a delivered invoice e-mail
type SendInvoiceOutput struct {
	MessageID string             `json:"message_id"`
	To        string             `json:"to"`
	Status    enum.InvoiceStatus `json:"status"`
}

// SendInvoice e-mails the rendered invoice to its client. A draft invoice
// becomes sent once the message is accepted.
func (s *DocumentService) SendInvoice(ctx context.Context, input *SendInvoiceInput) (*SendInvoiceOutput, error) {
	if s.mailer == nil || !s.mailer.IsEnabled() {
		return nil, apperror.ErrEmailDisabled
	}

	invoice, artifact, err := s.render(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	to := strings.TrimSpace(input.To)
	if to == "" && invoice.Client != nil && invoice.Client.Email != nil {
		to = *invoice.Client.Email
	}
	if to == "" {
		return nil, apperror.NewBadRequestError("Client has no email address")
	}

	var clientName string
	if invoice.Client != nil {
		clientName = invoice.Client.Name
	}
	html, err := email.RenderInvoiceEmail(email.InvoiceEmailData{
		AppName:       s.appName,
		ClientName:    clientName,
		InvoiceNumber: invoice.InvoiceNumber,
		Total:         invoicepdf.FormatAmount(invoice.Currency, invoice.Total),
		DueDate:       invoice.DueDate.Format(invoicepdf.DateLayout),
		Message:       strings.TrimSpace(input.Message),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render invoice email")
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		subject = fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
	}

	messageID, err := s.mailer.Send(ctx, &email.Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		Attachments: []email.Attachment{
			{FileName: artifact.FileName, Content: artifact.Data},
		},
	})
	if errors.Is(err, email.ErrDisabled) {
		return nil, apperror.ErrEmailDisabled
	}
	if err != nil {
		s.log.Errorw("invoice email failed", "invoice_id", invoice.ID, "error", err)
		return nil, apperror.NewAppError(http.StatusBadGateway, "Failed to send invoice email")
	}

	status := invoice.Status
	if status == enum.InvoiceStatusDraft {
		if err := s.invoiceRepo.UpdateStatus(ctx, invoice.ID, enum.InvoiceStatusSent); err != nil {
			return nil, err
		}
		status = enum.InvoiceStatusSent
	}

	s.log.Infow("invoice emailed", "invoice_id", invoice.ID, "message_id", messageID)
	return &SendInvoiceOutput{MessageID: messageID, To: to, Status: status}, nil
}

func (s *DocumentService) render(ctx context.Context, id uuid.UUID) (*entity.Invoice, *invoicepdf.Artifact, error) {
	invoice, err := s.reader.GetForExport(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if invoice == nil {
		return nil, nil, apperror.NewNotFoundError("Invoice")
	}

	artifact, err := s.renderer.Render(toDocument(invoice))
	if errors.Is(err, invoicepdf.ErrInvalidDate) {
		return nil, nil, apperror.NewBadRequestError("Invoice dates must be set before export")
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to render invoice %s", invoice.ID)
	}
	return invoice, artifact, nil
}

// toDocument maps a stored invoice onto the renderer's snapshot
func toDocument(inv *entity.Invoice) *invoicepdf.Invoice {
	doc := &invoicepdf.Invoice{
		InvoiceNumber:  inv.InvoiceNumber,
		Currency:       inv.Currency,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		TaxRate:        inv.TaxRate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		Total:          inv.Total,
		PaidAmount:     inv.PaidAmount,
		Notes:          lo.FromPtr(inv.Notes),
		Terms:          lo.FromPtr(inv.Terms),
		Items: lo.Map(inv.Items, func(item entity.InvoiceItem, _ int) invoicepdf.LineItem {
			return invoicepdf.LineItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			}
		}),
	}
	if c := inv.Client; c != nil {
		doc.Client = &invoicepdf.Client{
			Name:    c.Name,
			Email:   lo.FromPtr(c.Email),
			Address: lo.FromPtr(c.Address),
			City:    lo.FromPtr(c.City),
			State:   lo.FromPtr(c.State),
			ZipCode: lo.FromPtr(c.ZipCode),
		}
	}
	return doc
}
