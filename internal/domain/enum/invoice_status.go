package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// InvoiceStatus represents the lifecycle state of an invoice. Stored as text.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every valid status
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s InvoiceStatus) IsValid() bool {
	return lo.Contains(InvoiceStatuses, s)
}

// IsOpen reports whether money is still expected for the invoice
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// ParseInvoiceStatus parses a status case-insensitively
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	s := InvoiceStatus(strings.ToLower(strings.TrimSpace(str)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid invoice status %q", str)
	}
	return s, nil
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = InvoiceStatusDraft
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	return nil
}
