package invoicepdf

import (
	"bytes"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// ContentType of the rendered artifact
const ContentType = "application/pdf"

var (
	// ErrNoInvoice is returned when Render is called without an invoice
	ErrNoInvoice = errors.New("invoicepdf: no invoice to render")
	// ErrInvalidDate is returned when a date that must be displayed is unset
	ErrInvalidDate = errors.New("invoicepdf: invalid date")
)

// Client is the bill-to party of an invoice
type Client struct {
	Name    string
	Email   string
	Address string
	City    string
	State   string
	ZipCode string
}

// LineItem is one row of the item table. Items are drawn in slice order.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Invoice is a read-only snapshot of everything that appears on the document.
// Amounts are the stored values and are never recomputed.
type Invoice struct {
	InvoiceNumber  string
	Currency       string
	IssueDate      time.Time
	DueDate        time.Time
	TaxRate        decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	PaidAmount     decimal.Decimal
	Notes          string
	Terms          string
	Client         *Client
	Items          []LineItem
}

// Artifact is a serialized document ready for download
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Pages       int
}

// Renderer lays out invoices onto pages
type Renderer struct {
	cfg       Config
	newCanvas func(Config) Canvas
}

// NewRenderer creates a renderer drawing PDF pages with gofpdf
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		cfg: cfg.withDefaults(),
		newCanvas: func(c Config) Canvas {
			return newPDFCanvas(c)
		},
	}
}

// Config returns the effective layout configuration
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render lays out the invoice and serializes it
func (r *Renderer) Render(inv *Invoice) (*Artifact, error) {
	if inv == nil {
		return nil, ErrNoInvoice
	}

	canvas := r.newCanvas(r.cfg)
	if err := r.layout(canvas, inv); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, errors.Wrapf(err, "render invoice %s", inv.InvoiceNumber)
	}

	return &Artifact{
		FileName:    FileName(inv.InvoiceNumber),
		ContentType: ContentType,
		Data:        buf.Bytes(),
		Pages:       canvas.PageCount(),
	}, nil
}

// totalLine is one label/value pair of the totals block
type totalLine struct {
	Label string
	Value string
	Bold  bool
}

// totalsBlock lists the lines drawn below the item table
func (r *Renderer) totalsBlock(inv *Invoice, prefix string) []totalLine {
	lines := []totalLine{
		{Label: "Subtotal:", Value: formatMoney(prefix, inv.Subtotal)},
		{Label: "Tax (" + inv.TaxRate.String() + "%):", Value: formatMoney(prefix, inv.TaxAmount)},
	}
	if inv.DiscountAmount.IsPositive() {
		lines = append(lines, totalLine{Label: "Discount:", Value: "-" + formatMoney(prefix, inv.DiscountAmount)})
	}
	lines = append(lines, totalLine{Label: "Total:", Value: formatMoney(prefix, inv.Total), Bold: true})

	if r.cfg.ShowPayments && inv.PaidAmount.IsPositive() {
		lines = append(lines, totalLine{Label: "Paid:", Value: formatMoney(prefix, inv.PaidAmount)})
		if balance := inv.Total.Sub(inv.PaidAmount); balance.IsPositive() {
			lines = append(lines, totalLine{Label: "Balance Due:", Value: formatMoney(prefix, balance), Bold: true})
		}
	}
	return lines
}

func (r *Renderer) layout(c Canvas, inv *Invoice) error {
	issued, err := formatDate("issue date", inv.IssueDate)
	if err != nil {
		return err
	}
	due, err := formatDate("due date", inv.DueDate)
	if err != nil {
		return err
	}

	cfg := r.cfg
	prefix := currencyPrefix(inv.Currency)

	c.AddPage()
	left := cfg.Margin
	right := c.PageWidth() - cfg.Margin
	y := cfg.Margin

	// header
	c.SetFont(StyleBold, 20)
	c.Text(left, y, "INVOICE")
	c.SetFont(StyleNormal, 10)
	c.TextRight(right, y, "Invoice #: "+inv.InvoiceNumber)
	c.TextRight(right, y+5, "Issue Date: "+issued)
	c.TextRight(right, y+10, "Due Date: "+due)
	y += 25

	// bill to
	if lines := billToLines(inv.Client); len(lines) > 0 {
		c.SetFont(StyleBold, 12)
		c.Text(left, y, "Bill To:")
		y += 6
		c.SetFont(StyleNormal, 10)
		for _, line := range lines {
			c.Text(left, y, line)
			y += 5
		}
	}
	y += 10

	// item table
	c.SetFont(StyleBold, 12)
	c.Text(left, y, "Items")
	y += 8
	c.SetFont(StyleBold, 9)
	c.Text(left, y, "Description")
	c.Text(left+cfg.QuantityOffset, y, "Quantity")
	c.Text(left+cfg.UnitPriceOffset, y, "Unit Price")
	c.TextRight(right, y, "Total")
	y += 5
	c.Line(left, y, right, y)
	y += 5

	c.SetFont(StyleNormal, 9)
	for _, item := range inv.Items {
		if y > cfg.PageBottom {
			c.AddPage()
			c.SetFont(StyleNormal, 9)
			y = cfg.Margin
		}
		c.Text(left, y, truncate(item.Description, cfg.DescriptionMaxChars))
		c.Text(left+cfg.QuantityOffset, y, item.Quantity.String())
		c.Text(left+cfg.UnitPriceOffset, y, formatMoney(prefix, item.UnitPrice))
		c.TextRight(right, y, formatMoney(prefix, item.LineTotal))
		y += cfg.RowHeight
	}

	// closing rule and totals follow the last row on its page
	totals := r.totalsBlock(inv, prefix)
	y += 5
	c.Line(left, y, right, y)
	y += 8

	for _, line := range totals {
		if line.Bold {
			c.SetFont(StyleBold, 12)
		} else {
			c.SetFont(StyleNormal, 10)
		}
		c.TextRight(right-cfg.TotalsLabelOffset, y, line.Label)
		c.TextRight(right, y, line.Value)
		y += 6
	}

	// notes and terms flow without further page checks
	y = r.textBlock(c, y+9, "Notes:", inv.Notes, right-left)
	r.textBlock(c, y+6, "Terms & Conditions:", inv.Terms, right-left)

	return nil
}

// textBlock draws a titled, word-wrapped paragraph and returns the cursor
// below it. Blank text draws nothing.
func (r *Renderer) textBlock(c Canvas, y float64, title, text string, width float64) float64 {
	if strings.TrimSpace(text) == "" {
		return y
	}
	left := r.cfg.Margin

	c.SetFont(StyleBold, 10)
	c.Text(left, y, title)
	y += 5
	c.SetFont(StyleNormal, 9)
	for _, line := range c.SplitText(text, width) {
		c.Text(left, y, line)
		y += r.cfg.TextLineHeight
	}
	return y
}
