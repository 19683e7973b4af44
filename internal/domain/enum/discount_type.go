package enum

import (
	"database/sql/driver"
	"fmt"
)

// DiscountType selects how an invoice discount is applied
type DiscountType string

const (
	DiscountTypeAmount  DiscountType = "amount"
	DiscountTypePercent DiscountType = "percent"
)

func (d DiscountType) String() string {
	return string(d)
}

func (d DiscountType) IsValid() bool {
	return d == DiscountTypeAmount || d == DiscountTypePercent
}

// IsPercent reports whether the discount is a percentage of the subtotal
func (d DiscountType) IsPercent() bool {
	return d == DiscountTypePercent
}

func (d DiscountType) Value() (driver.Value, error) {
	if d == "" {
		return string(DiscountTypeAmount), nil
	}
	return string(d), nil
}

func (d *DiscountType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = DiscountTypeAmount
	case string:
		*d = DiscountType(v)
	case []byte:
		*d = DiscountType(v)
	default:
		return fmt.Errorf("cannot scan %T into DiscountType", value)
	}
	return nil
}
