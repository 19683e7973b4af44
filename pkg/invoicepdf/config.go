package invoicepdf

// Layout defaults. Distances are in page units (millimetres for the default
// "mm" unit), font sizes in points.
const (
	DefaultPageSize    = "A4"
	DefaultOrientation = "P"
	DefaultUnit        = "mm"
	DefaultFontFamily  = "Helvetica"

	// DefaultMargin is the left, right and top margin
	DefaultMargin = 20.0
	// DefaultPageBottom is the y position after which the next table row
	// starts a new page
	DefaultPageBottom = 250.0
	// DefaultRowHeight is the vertical advance after each table row
	DefaultRowHeight = 6.0
	// DefaultDescriptionMaxChars is the number of characters of an item
	// description that are drawn
	DefaultDescriptionMaxChars = 40
	// DefaultQuantityOffset and DefaultUnitPriceOffset are measured from the
	// left margin
	DefaultQuantityOffset  = 80.0
	DefaultUnitPriceOffset = 100.0
	// DefaultTotalsLabelOffset is measured leftwards from the right margin
	DefaultTotalsLabelOffset = 40.0
	// DefaultTextLineHeight is the advance between wrapped lines of notes and terms
	DefaultTextLineHeight = 4.0
)

// Config controls page geometry and layout thresholds of the renderer
type Config struct {
	PageSize    string
	Orientation string
	Unit        string
	FontFamily  string

	Margin              float64
	PageBottom          float64
	RowHeight           float64
	DescriptionMaxChars int
	QuantityOffset      float64
	UnitPriceOffset     float64
	TotalsLabelOffset   float64
	TextLineHeight      float64

	// ShowPayments adds "Paid" and "Balance Due" lines below the total
	ShowPayments bool
	// Compress enables stream compression in the serialized PDF
	Compress bool
}

// DefaultConfig returns an A4 portrait layout
func DefaultConfig() Config {
	return Config{
		PageSize:            DefaultPageSize,
		Orientation:         DefaultOrientation,
		Unit:                DefaultUnit,
		FontFamily:          DefaultFontFamily,
		Margin:              DefaultMargin,
		PageBottom:          DefaultPageBottom,
		RowHeight:           DefaultRowHeight,
		DescriptionMaxChars: DefaultDescriptionMaxChars,
		QuantityOffset:      DefaultQuantityOffset,
		UnitPriceOffset:     DefaultUnitPriceOffset,
		TotalsLabelOffset:   DefaultTotalsLabelOffset,
		TextLineHeight:      DefaultTextLineHeight,
		Compress:            true,
	}
}

// withDefaults fills zero values from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PageSize == "" {
		c.PageSize = def.PageSize
	}
	if c.Orientation == "" {
		c.Orientation = def.Orientation
	}
	if c.Unit == "" {
		c.Unit = def.Unit
	}
	if c.FontFamily == "" {
		c.FontFamily = def.FontFamily
	}
	if c.Margin <= 0 {
		c.Margin = def.Margin
	}
	if c.PageBottom <= 0 {
		c.PageBottom = def.PageBottom
	}
	if c.RowHeight <= 0 {
		c.RowHeight = def.RowHeight
	}
	if c.DescriptionMaxChars <= 0 {
		c.DescriptionMaxChars = def.DescriptionMaxChars
	}
	if c.QuantityOffset <= 0 {
		c.QuantityOffset = def.QuantityOffset
	}
	if c.UnitPriceOffset <= 0 {
		c.UnitPriceOffset = def.UnitPriceOffset
	}
	if c.TotalsLabelOffset <= 0 {
		c.TotalsLabelOffset = def.TotalsLabelOffset
	}
	if c.TextLineHeight <= 0 {
		c.TextLineHeight = def.TextLineHeight
	}
	return c
}
