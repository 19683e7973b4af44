package handler

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sangkips/invowise-api/internal/application/service"
	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	documentService *service.DocumentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, documentService *service.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// List handles listing invoices with filters
func (h *InvoiceHandler) List(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	input := &service.ListInvoicesInput{
		Pagination: &params,
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid client_id")
			return
		}
		input.ClientID = &clientID
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Invoices retrieved successfully", result)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), toInvoiceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles retrieving an invoice with its client and items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update handles replacing an invoice and its items
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, toInvoiceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice deleted successfully", nil)
}

// UpdateStatus handles an invoice status change
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, _ := enum.ParseInvoiceStatus(req.Status)

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice status updated successfully", invoice)
}

// RecordPayment handles a payment against an invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded successfully", invoice)
}

// DownloadPDF streams the rendered invoice as an attachment
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	artifact, err := h.documentService.ExportPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition(artifact.FileName))
	c.Header("Content-Length", strconv.Itoa(len(artifact.Data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// Send handles e-mailing the invoice PDF to its client
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.SendInvoiceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	out, err := h.documentService.SendInvoice(c.Request.Context(), &service.SendInvoiceInput{
		InvoiceID: id,
		To:        req.To,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice sent successfully", out)
}

// toInvoiceInput converts a bound request. Formats were checked by binding.
func toInvoiceInput(req *request.InvoiceRequest) *service.InvoiceInput {
	input := &service.InvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		Currency:      req.Currency,
		TaxRate:       req.TaxRate,
		Discount:      req.Discount,
		DiscountType:  enum.DiscountType(strings.ToLower(req.DiscountType)),
		Notes:         req.Notes,
		Terms:         req.Terms,
		IssueDate:     parseDate(req.IssueDate),
		DueDate:       parseDate(req.DueDate),
		Items: lo.Map(req.Items, func(item request.InvoiceItemRequest, _ int) service.InvoiceItemInput {
			return service.InvoiceItemInput{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TaxRate:     item.TaxRate,
			}
		}),
	}
	if req.Status != "" {
		input.Status, _ = enum.ParseInvoiceStatus(req.Status)
	}
	if req.ClientID != nil && *req.ClientID != "" {
		if clientID, err := uuid.Parse(*req.ClientID); err == nil {
			input.ClientID = &clientID
		}
	}
	return input
}

// contentDisposition quotes or RFC 2231 encodes the file name as needed
func contentDisposition(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(request.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
