package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatInvoiceNumber formats a sequence as prefix + 4 zero-padded digits, e.g. INV-0001
func FormatInvoiceNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// NextInvoiceNumber returns the number following the highest sequence among
// existing numbers that carry the prefix. Numbers with a non-numeric suffix
// are ignored.
func NextInvoiceNumber(prefix string, existing []string) string {
	highest := 0
	for _, n := range existing {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(n, prefix))
		if err != nil || seq < 0 {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return FormatInvoiceNumber(prefix, highest+1)
}

// GenerateRequestID generates an identifier for request tracing
func GenerateRequestID() string {
	return uuid.New().String()
}
