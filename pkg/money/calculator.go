package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places used for stored and displayed amounts
const Places = 2

var hundred = decimal.NewFromInt(100)

// Input holds the invoice-level parameters the totals are derived from
type Input struct {
	Subtotal decimal.Decimal
	// TaxRate is a percentage, e.g. 10 for 10%
	TaxRate  decimal.Decimal
	Discount decimal.Decimal
	// PercentDiscount selects whether Discount is a percentage of the subtotal
	// or a flat amount
	PercentDiscount bool
}

// Totals holds the derived invoice amounts
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Calculate derives tax, discount and grand total from the input.
// No validation happens here: negative or out-of-range values pass through
// arithmetically. Tax and discount are rounded to Places before summing so
// that Total == Subtotal + TaxAmount - DiscountAmount holds on the rounded values.
func Calculate(in Input) Totals {
	taxAmount := in.Subtotal.Mul(in.TaxRate).Div(hundred).Round(Places)

	discountAmount := in.Discount
	if in.PercentDiscount {
		discountAmount = in.Subtotal.Mul(in.Discount).Div(hundred)
	}
	discountAmount = discountAmount.Round(Places)

	return Totals{
		Subtotal:       in.Subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          in.Subtotal.Add(taxAmount).Sub(discountAmount),
	}
}

// LineTotal returns quantity x unit price
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Subtotal sums line totals
func Subtotal(lineTotals ...decimal.Decimal) decimal.Decimal {
	if len(lineTotals) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(lineTotals[0], lineTotals[1:]...)
}

// Format renders an amount with exactly two decimal places
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(Places)
}
