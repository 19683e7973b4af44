package invoicepdf

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/pkg/money"
)

// DateLayout is the display format for issue and due dates
const DateLayout = "Jan 02, 2006"

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"NZD": "$",
	"SGD": "$",
	"HKD": "$",
	"MXN": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// currencyPrefix returns the symbol drawn before amounts. Unknown codes are
// drawn as the code followed by a space; an empty code means dollars.
func currencyPrefix(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "$"
	}
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}

func formatMoney(prefix string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + prefix + money.Format(amount.Neg())
	}
	return prefix + money.Format(amount)
}

// FormatAmount renders amount with the symbol of the currency code
func FormatAmount(currency string, amount decimal.Decimal) string {
	return formatMoney(currencyPrefix(currency), amount)
}

func formatDate(field string, t time.Time) (string, error) {
	if t.IsZero() {
		return "", errors.Wrapf(ErrInvalidDate, "%s is not set", field)
	}
	return t.Format(DateLayout), nil
}

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// billToLines returns the client lines below the "Bill To:" label. Missing
// fields produce no line.
func billToLines(c *Client) []string {
	if c == nil {
		return nil
	}
	lines := []string{c.Name}
	lines = append(lines, lo.Compact([]string{
		strings.TrimSpace(c.Email),
		strings.TrimSpace(c.Address),
	})...)

	locality := lo.Compact([]string{
		strings.TrimSpace(c.City),
		strings.TrimSpace(c.State),
		strings.TrimSpace(c.ZipCode),
	})
	if len(locality) > 0 {
		lines = append(lines, strings.Join(locality, ", "))
	}
	return lines
}

// FileName returns the suggested download name for an invoice number
func FileName(invoiceNumber string) string {
	number := strings.TrimSpace(invoiceNumber)
	if number == "" {
		return "invoice.pdf"
	}
	number = strings.NewReplacer("/", "-", "\\", "-").Replace(number)
	return "invoice-" + number + ".pdf"
}
