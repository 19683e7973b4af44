package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		in           Input
		wantTax      string
		wantDiscount string
		wantTotal    string
	}{
		{
			name:         "percent discount of zero",
			in:           Input{Subtotal: d("100"), TaxRate: d("10"), Discount: d("0"), PercentDiscount: true},
			wantTax:      "10.00",
			wantDiscount: "0.00",
			wantTotal:    "110.00",
		},
		{
			name:         "flat discount",
			in:           Input{Subtotal: d("200"), TaxRate: d("5"), Discount: d("15")},
			wantTax:      "10.00",
			wantDiscount: "15.00",
			wantTotal:    "195.00",
		},
		{
			name:         "percent discount",
			in:           Input{Subtotal: d("80"), TaxRate: d("0"), Discount: d("25"), PercentDiscount: true},
			wantTax:      "0.00",
			wantDiscount: "20.00",
			wantTotal:    "60.00",
		},
		{
			name:         "tax is rounded before summing",
			in:           Input{Subtotal: d("33.33"), TaxRate: d("7.5")},
			wantTax:      "2.50",
			wantDiscount: "0.00",
			wantTotal:    "35.83",
		},
		{
			name:         "negative input passes through",
			in:           Input{Subtotal: d("-10"), TaxRate: d("10"), Discount: d("-5")},
			wantTax:      "-1.00",
			wantDiscount: "-5.00",
			wantTotal:    "-6.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.in)
			assert.Equal(t, tt.wantTax, Format(got.TaxAmount))
			assert.Equal(t, tt.wantDiscount, Format(got.DiscountAmount))
			assert.Equal(t, tt.wantTotal, Format(got.Total))
			assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount).Sub(got.DiscountAmount)))
		})
	}
}

func TestLineTotalAndSubtotal(t *testing.T) {
	a := LineTotal(d("2"), d("25.00"))
	b := LineTotal(d("1"), d("50.00"))
	c := LineTotal(d("1.5"), d("10"))

	assert.Equal(t, "50.00", Format(a))
	assert.Equal(t, "15.00", Format(c))
	assert.Equal(t, "115.00", Format(Subtotal(a, b, c)))
	assert.True(t, Subtotal().IsZero())
}
