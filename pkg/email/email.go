package email

import (
	"bytes"
	"context"
	"html/template"

	"github.com/cockroachdb/errors"
	"github.com/resend/resend-go/v2"
)

// ErrDisabled is returned when sending while no API key is configured
var ErrDisabled = errors.New("email delivery is disabled")

// EmailConfig holds the Resend configuration
type EmailConfig struct {
	Enabled     bool
	APIKey      string
	FromName    string
	FromAddress string
	ReplyTo     string
}

// Attachment is a file sent along with a message
type Attachment struct {
	FileName string
	Content  []byte
}

// Message is an outgoing e-mail
type Message struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Sender delivers a message and returns the provider message id
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// EmailService handles email sending through Resend
type EmailService struct {
	config  EmailConfig
	client  *resend.Client
	enabled bool
}

// NewEmailService creates a new email service. Without an API key the service
// stays disabled and Send returns ErrDisabled.
func NewEmailService(config EmailConfig) *EmailService {
	if !config.Enabled || config.APIKey == "" {
		return &EmailService{config: config}
	}
	return &EmailService{
		config:  config,
		client:  resend.NewClient(config.APIKey),
		enabled: true,
	}
}

// IsEnabled reports whether messages can be delivered
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// Send delivers a message
func (s *EmailService) Send(ctx context.Context, msg *Message) (string, error) {
	if !s.enabled {
		return "", ErrDisabled
	}

	params := &resend.SendEmailRequest{
		From:    s.from(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if s.config.ReplyTo != "" {
		params.ReplyTo = s.config.ReplyTo
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:  a.Content,
			Filename: a.FileName,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "failed to send email")
	}
	return sent.Id, nil
}

func (s *EmailService) from() string {
	if s.config.FromName == "" {
		return s.config.FromAddress
	}
	return s.config.FromName + " <" + s.config.FromAddress + ">"
}

// InvoiceEmailData is the data rendered into the invoice e-mail
type InvoiceEmailData struct {
	AppName       string
	ClientName    string
	InvoiceNumber string
	Total         string
	DueDate       string
	Message       string
}

var invoiceEmailTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// RenderInvoiceEmail renders the HTML body that accompanies an invoice PDF
func RenderInvoiceEmail(data InvoiceEmailData) (string, error) {
	if data.AppName == "" {
		data.AppName = "InvoWise"
	}
	var buf bytes.Buffer
	if err := invoiceEmailTmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to render email template")
	}
	return buf.String(), nil
}

// invoiceTemplate is the HTML template for invoice emails
const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Invoice {{.InvoiceNumber}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #1e3a8a; padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 26px; font-weight: 600;">{{.AppName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 36px 30px;">
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                Hello{{if .ClientName}} {{.ClientName}}{{end}},
                            </p>
                            {{if .Message}}<p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">{{.Message}}</p>{{end}}
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                Please find invoice <strong>{{.InvoiceNumber}}</strong> attached.
                            </p>
                            <table role="presentation" style="width: 100%; border-collapse: collapse; margin: 0 0 20px 0;">
                                <tr>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0;">Amount due</td>
                                    <td style="color: #1a1a2e; font-size: 14px; padding: 6px 0; text-align: right;"><strong>{{.Total}}</strong></td>
                                </tr>
                                <tr>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0;">Due date</td>
                                    <td style="color: #1a1a2e; font-size: 14px; padding: 6px 0; text-align: right;">{{.DueDate}}</td>
                                </tr>
                            </table>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 24px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">This email was sent by {{.AppName}}</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
