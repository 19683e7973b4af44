package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sangkips/invowise-api/pkg/invoicepdf"
)

func TestPDFConfig_RenderConfig(t *testing.T) {
	empty := PDFConfig{Compress: true}
	cfg := empty.RenderConfig()
	assert.Equal(t, invoicepdf.DefaultConfig(), cfg)

	custom := PDFConfig{PageSize: "Letter", PageBottom: 240, DescriptionMaxChars: 60, ShowPayments: true}
	cfg = custom.RenderConfig()
	assert.Equal(t, "Letter", cfg.PageSize)
	assert.Equal(t, 240.0, cfg.PageBottom)
	assert.Equal(t, 60, cfg.DescriptionMaxChars)
	assert.Equal(t, invoicepdf.DefaultMargin, cfg.Margin)
	assert.True(t, cfg.ShowPayments)
	assert.False(t, cfg.Compress)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PDF_SHOW_PAYMENTS", "true")
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("INVOICE_NUMBER_PREFIX", "INV-")

	cfg := Load()
	assert.True(t, cfg.App.SecureCookies)
	assert.Equal(t, "INV-", cfg.Invoice.NumberPrefix)
	assert.Equal(t, DataSourcePostgres, cfg.Supabase.DataSource)
	assert.True(t, cfg.PDF.ShowPayments)
	assert.Equal(t, invoicepdf.DefaultPageBottom, cfg.PDF.PageBottom)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "6543", Name: "postgres", User: "app", Password: "pw", SSLMode: "require", Timezone: "UTC"}
	assert.Equal(t, "host=db user=app password=pw dbname=postgres port=6543 sslmode=require TimeZone=UTC", db.DSN())
}
