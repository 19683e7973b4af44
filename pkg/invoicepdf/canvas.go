package invoicepdf

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jung-kurt/gofpdf"
)

// FontStyle selects the font weight used for subsequent text
type FontStyle string

const (
	StyleNormal FontStyle = ""
	StyleBold   FontStyle = "B"
)

// Canvas is the page surface the layout engine draws on. Coordinates are in
// the configured unit with the origin at the top-left corner of the page.
type Canvas interface {
	AddPage()
	PageCount() int
	PageWidth() float64
	PageHeight() float64
	SetFont(style FontStyle, size float64)
	// Text draws s with its left edge at x and baseline at y
	Text(x, y float64, s string)
	// TextRight draws s with its right edge at x
	TextRight(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	// SplitText breaks s into lines no wider than width using the current font
	SplitText(s string, width float64) []string
	Output(w io.Writer) error
}

// pdfCanvas draws onto a gofpdf document
type pdfCanvas struct {
	pdf       *gofpdf.Fpdf
	family    string
	translate func(string) string
}

// newPDFCanvas creates an empty document; the renderer adds the first page
func newPDFCanvas(cfg Config) *pdfCanvas {
	pdf := gofpdf.New(cfg.Orientation, cfg.Unit, cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	// page breaks are decided by the layout engine
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.Compress)
	pdf.SetCreator("invowise", true)

	return &pdfCanvas{
		pdf:       pdf,
		family:    cfg.FontFamily,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *pdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *pdfCanvas) PageWidth() float64 {
	w, _ := c.pdf.GetPageSize()
	return w
}

func (c *pdfCanvas) PageHeight() float64 {
	_, h := c.pdf.GetPageSize()
	return h
}

func (c *pdfCanvas) SetFont(style FontStyle, size float64) {
	c.pdf.SetFont(c.family, string(style), size)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.translate(s))
}

func (c *pdfCanvas) TextRight(x, y float64, s string) {
	s = c.translate(s)
	c.pdf.Text(x-c.pdf.GetStringWidth(s), y, s)
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) SplitText(s string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}
		// lines stay UTF-8; Text translates them when drawn
		for _, line := range c.pdf.SplitLines([]byte(paragraph), width) {
			lines = append(lines, string(line))
		}
	}
	return lines
}

func (c *pdfCanvas) Output(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return errors.Wrap(err, "build pdf")
	}
	if err := c.pdf.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return nil
}
