package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sangkips/invowise-api/pkg/invoicepdf"
)

// Data sources for the invoice export read path
const (
	DataSourcePostgres = "postgres"
	DataSourceSupabase = "supabase"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Supabase    SupabaseConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Email       EmailConfig
	PDF         PDFConfig
	Invoice     InvoiceConfig
	Maintenance MaintenanceConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
	// SecureCookies marks session cookies Secure; on in production
	SecureCookies bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// SupabaseConfig points at the hosted project that owns auth and storage
type SupabaseConfig struct {
	URL        string
	ServiceKey string
	JWTSecret  string
	Audience   string
	// DataSource selects where exports read invoices from
	DataSource string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string
	FromName    string
	FromAddress string
	ReplyTo     string
}

// PDFConfig holds layout values of the exported document. Distances are in
// millimetres.
type PDFConfig struct {
	PageSize            string
	Margin              float64
	PageBottom          float64
	RowHeight           float64
	DescriptionMaxChars int
	ShowPayments        bool
	Compress            bool
}

type InvoiceConfig struct {
	NumberPrefix    string
	DefaultCurrency string
	DefaultDueDays  int
}

type MaintenanceConfig struct {
	Enabled  bool
	Interval time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	env := viper.GetString("APP_ENV")
	return &Config{
		App: AppConfig{
			Name:          viper.GetString("APP_NAME"),
			Env:           env,
			Port:          viper.GetString("APP_PORT"),
			Debug:         viper.GetBool("APP_DEBUG"),
			LogLevel:      viper.GetString("LOG_LEVEL"),
			SecureCookies: env == "production",
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Supabase: SupabaseConfig{
			URL:        viper.GetString("SUPABASE_URL"),
			ServiceKey: viper.GetString("SUPABASE_SERVICE_KEY"),
			JWTSecret:  viper.GetString("SUPABASE_JWT_SECRET"),
			Audience:   viper.GetString("SUPABASE_JWT_AUDIENCE"),
			DataSource: strings.ToLower(viper.GetString("DATA_SOURCE")),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Email: EmailConfig{
			Enabled:     viper.GetBool("EMAIL_ENABLED"),
			APIKey:      viper.GetString("RESEND_API_KEY"),
			FromName:    viper.GetString("EMAIL_FROM_NAME"),
			FromAddress: viper.GetString("EMAIL_FROM_ADDRESS"),
			ReplyTo:     viper.GetString("EMAIL_REPLY_TO"),
		},
		PDF: PDFConfig{
			PageSize:            viper.GetString("PDF_PAGE_SIZE"),
			Margin:              viper.GetFloat64("PDF_MARGIN"),
			PageBottom:          viper.GetFloat64("PDF_PAGE_BOTTOM"),
			RowHeight:           viper.GetFloat64("PDF_ROW_HEIGHT"),
			DescriptionMaxChars: viper.GetInt("PDF_DESCRIPTION_MAX_CHARS"),
			ShowPayments:        viper.GetBool("PDF_SHOW_PAYMENTS"),
			Compress:            viper.GetBool("PDF_COMPRESS"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix:    viper.GetString("INVOICE_NUMBER_PREFIX"),
			DefaultCurrency: strings.ToUpper(viper.GetString("INVOICE_DEFAULT_CURRENCY")),
			DefaultDueDays:  viper.GetInt("INVOICE_DEFAULT_DUE_DAYS"),
		},
		Maintenance: MaintenanceConfig{
			Enabled:  viper.GetBool("MAINTENANCE_ENABLED"),
			Interval: viper.GetDuration("MAINTENANCE_INTERVAL"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "invowise-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "postgres")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("SUPABASE_URL", "http://localhost:54321")
	viper.SetDefault("SUPABASE_SERVICE_KEY", "")
	viper.SetDefault("SUPABASE_JWT_SECRET", "super-secret-jwt-token-with-at-least-32-characters-long")
	viper.SetDefault("SUPABASE_JWT_AUDIENCE", "authenticated")
	viper.SetDefault("DATA_SOURCE", DataSourcePostgres)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("EMAIL_FROM_NAME", "InvoWise")
	viper.SetDefault("EMAIL_FROM_ADDRESS", "invoices@invowise.app")
	viper.SetDefault("EMAIL_REPLY_TO", "")
	viper.SetDefault("PDF_PAGE_SIZE", invoicepdf.DefaultPageSize)
	viper.SetDefault("PDF_MARGIN", invoicepdf.DefaultMargin)
	viper.SetDefault("PDF_PAGE_BOTTOM", invoicepdf.DefaultPageBottom)
	viper.SetDefault("PDF_ROW_HEIGHT", invoicepdf.DefaultRowHeight)
	viper.SetDefault("PDF_DESCRIPTION_MAX_CHARS", invoicepdf.DefaultDescriptionMaxChars)
	viper.SetDefault("PDF_SHOW_PAYMENTS", false)
	viper.SetDefault("PDF_COMPRESS", true)
	viper.SetDefault("INVOICE_NUMBER_PREFIX", "INV-")
	viper.SetDefault("INVOICE_DEFAULT_CURRENCY", "USD")
	viper.SetDefault("INVOICE_DEFAULT_DUE_DAYS", 30)
	viper.SetDefault("MAINTENANCE_ENABLED", true)
	viper.SetDefault("MAINTENANCE_INTERVAL", "1h")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// RenderConfig converts the PDF section into renderer settings
func (c *PDFConfig) RenderConfig() invoicepdf.Config {
	cfg := invoicepdf.DefaultConfig()
	if c.PageSize != "" {
		cfg.PageSize = c.PageSize
	}
	if c.Margin > 0 {
		cfg.Margin = c.Margin
	}
	if c.PageBottom > 0 {
		cfg.PageBottom = c.PageBottom
	}
	if c.RowHeight > 0 {
		cfg.RowHeight = c.RowHeight
	}
	if c.DescriptionMaxChars > 0 {
		cfg.DescriptionMaxChars = c.DescriptionMaxChars
	}
	cfg.ShowPayments = c.ShowPayments
	cfg.Compress = c.Compress
	return cfg
}
