package email

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService_DisabledWithoutKey(t *testing.T) {
	svc := NewEmailService(EmailConfig{Enabled: true, FromAddress: "billing@invowise.test"})
	assert.False(t, svc.IsEnabled())

	_, err := svc.Send(context.Background(), &Message{To: "a@b.test"})
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestEmailService_From(t *testing.T) {
	svc := NewEmailService(EmailConfig{FromAddress: "billing@invowise.test"})
	assert.Equal(t, "billing@invowise.test", svc.from())

	svc = NewEmailService(EmailConfig{FromName: "Acme Billing", FromAddress: "billing@invowise.test"})
	assert.Equal(t, "Acme Billing <billing@invowise.test>", svc.from())
}

func TestRenderInvoiceEmail(t *testing.T) {
	html, err := RenderInvoiceEmail(InvoiceEmailData{
		ClientName:    "Acme <Co>",
		InvoiceNumber: "INV-0007",
		Total:         "$110.00",
		DueDate:       "Mar 31, 2024",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "INV-0007")
	assert.Contains(t, html, "$110.00")
	assert.Contains(t, html, "Mar 31, 2024")
	assert.Contains(t, html, "InvoWise")
	// client supplied text is escaped
	assert.Contains(t, html, "Acme &lt;Co&gt;")
}
