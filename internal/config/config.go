package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSellerState is the seller jurisdiction used when none is configured.
const DefaultSellerState = "Punjab"

// DefaultJWTSecret is the development signing secret. Production refuses it.
const DefaultJWTSecret = "change-me-in-production"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Queue     QueueConfig
	Notify    NotifyConfig
	Shopify   ShopifyConfig
	Invoice   InvoiceConfig
	Company   CompanyConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	// Enabled false runs the service without bookkeeping or queueing.
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds invoice bucket settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
	// AssetsDir holds logos and signatures referenced by bare filename.
	AssetsDir string `mapstructure:"assets_dir"`
}

// PresignTTL returns the presigned URL lifetime.
func (s *S3Config) PresignTTL() time.Duration {
	return time.Duration(s.PresignExpiry) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds async invoice worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// NotifyConfig selects and configures the invoice notifier.
type NotifyConfig struct {
	Provider       string `mapstructure:"provider"`
	Region         string `mapstructure:"region"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	ResendAPIKey   string `mapstructure:"resend_api_key"`
	SQSQueueURL    string `mapstructure:"sqs_queue_url"`
}

// ShopifyConfig holds webhook settings.
type ShopifyConfig struct {
	WebhookSecret     string `mapstructure:"webhook_secret"`
	DefaultShopDomain string `mapstructure:"default_shop_domain"`
	// Async enqueues webhooks for the queue worker instead of generating inline.
	Async bool `mapstructure:"async"`
}

// InvoiceConfig is the environment fallback for template styling.
type InvoiceConfig struct {
	Template     string `mapstructure:"template"`
	FontFamily   string `mapstructure:"font_family"`
	PrimaryColor string `mapstructure:"primary_color"`
}

// CompanyConfig is the seller identity used when no shop configuration exists.
type CompanyConfig struct {
	State        string `mapstructure:"state"`
	Name         string `mapstructure:"name"`
	LegalName    string `mapstructure:"legal_name"`
	AddressLine1 string `mapstructure:"address_line1"`
	AddressLine2 string `mapstructure:"address_line2"`
	GSTIN        string `mapstructure:"gstin"`
	LogoFilename string `mapstructure:"logo_filename"`
	SupportEmail string `mapstructure:"support_email"`
	Phone        string `mapstructure:"phone"`
	OwnerEmail   string `mapstructure:"owner_email"`
}

// RateLimitConfig bounds per-client request rates.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// JWTConfig holds signing settings for shop API tokens.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Issuer      string        `mapstructure:"issuer"`
}

// LoadDotEnv loads .env files for local runs. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.LoadDotEnv %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with the INVOICER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.enabled", true)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicer")
	v.SetDefault("db.password", "invoicer_secret")
	v.SetDefault("db.name", "invoicer_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "invoicer-invoices")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 172800)
	v.SetDefault("s3.assets_dir", "assets")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 5)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "ap-south-1")
	v.SetDefault("notify.from_address", "invoices@example.com")
	v.SetDefault("notify.from_name", "Invoices")

	v.SetDefault("shopify.async", false)

	v.SetDefault("invoice.template", "minimalist")
	v.SetDefault("invoice.font_family", "")
	v.SetDefault("invoice.primary_color", "")

	v.SetDefault("company.state", "")
	v.SetDefault("company.logo_filename", "logo.jpg")

	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	// JWT defaults
	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.token_expiry", "720h")
	v.SetDefault("jwt.issuer", "invoicer")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "INVOICER_SERVER_PORT",
		"server.read_timeout":         "INVOICER_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "INVOICER_SERVER_WRITE_TIMEOUT",
		"server.environment":          "INVOICER_SERVER_ENVIRONMENT",
		"db.enabled":                  "INVOICER_DB_ENABLED",
		"db.host":                     "INVOICER_DB_HOST",
		"db.port":                     "INVOICER_DB_PORT",
		"db.user":                     "INVOICER_DB_USER",
		"db.password":                 "INVOICER_DB_PASSWORD",
		"db.name":                     "INVOICER_DB_NAME",
		"db.sslmode":                  "INVOICER_DB_SSLMODE",
		"db.max_open":                 "INVOICER_DB_MAX_OPEN",
		"db.max_idle":                 "INVOICER_DB_MAX_IDLE",
		"s3.region":                   "INVOICER_S3_REGION",
		"s3.bucket":                   "INVOICER_S3_BUCKET",
		"s3.endpoint":                 "INVOICER_S3_ENDPOINT",
		"s3.access_key":               "INVOICER_S3_ACCESS_KEY",
		"s3.secret_key":               "INVOICER_S3_SECRET_KEY",
		"s3.presign_expiry":           "INVOICER_S3_PRESIGN_EXPIRY",
		"s3.assets_dir":               "INVOICER_S3_ASSETS_DIR",
		"log.level":                   "INVOICER_LOG_LEVEL",
		"log.format":                  "INVOICER_LOG_FORMAT",
		"cors.allowed_origins":        "INVOICER_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":    "INVOICER_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":           "INVOICER_QUEUE_MAX_RETRIES",
		"queue.concurrency":           "INVOICER_QUEUE_CONCURRENCY",
		"notify.provider":             "INVOICER_NOTIFY_PROVIDER",
		"notify.region":               "INVOICER_NOTIFY_REGION",
		"notify.from_address":         "INVOICER_NOTIFY_FROM_ADDRESS",
		"notify.from_name":            "INVOICER_NOTIFY_FROM_NAME",
		"notify.sendgrid_api_key":     "INVOICER_NOTIFY_SENDGRID_API_KEY",
		"notify.resend_api_key":       "INVOICER_NOTIFY_RESEND_API_KEY",
		"notify.sqs_queue_url":        "INVOICER_NOTIFY_SQS_QUEUE_URL",
		"shopify.webhook_secret":      "INVOICER_SHOPIFY_WEBHOOK_SECRET",
		"shopify.default_shop_domain": "INVOICER_SHOPIFY_DEFAULT_SHOP_DOMAIN",
		"shopify.async":               "INVOICER_SHOPIFY_ASYNC",
		"invoice.template":            "INVOICER_INVOICE_TEMPLATE",
		"invoice.font_family":         "INVOICER_INVOICE_FONT_FAMILY",
		"invoice.primary_color":       "INVOICER_INVOICE_PRIMARY_COLOR",
		"company.state":               "INVOICER_COMPANY_STATE",
		"company.name":                "INVOICER_COMPANY_NAME",
		"company.legal_name":          "INVOICER_COMPANY_LEGAL_NAME",
		"company.address_line1":       "INVOICER_COMPANY_ADDRESS_LINE1",
		"company.address_line2":       "INVOICER_COMPANY_ADDRESS_LINE2",
		"company.gstin":               "INVOICER_COMPANY_GSTIN",
		"company.logo_filename":       "INVOICER_COMPANY_LOGO_FILENAME",
		"company.support_email":       "INVOICER_COMPANY_SUPPORT_EMAIL",
		"company.phone":               "INVOICER_COMPANY_PHONE",
		"company.owner_email":         "INVOICER_COMPANY_OWNER_EMAIL",
		"rate_limit.rps":              "INVOICER_RATE_LIMIT_RPS",
		"rate_limit.burst":            "INVOICER_RATE_LIMIT_BURST",
		"jwt.secret":                  "INVOICER_JWT_SECRET",
		"jwt.token_expiry":            "INVOICER_JWT_TOKEN_EXPIRY",
		"jwt.issuer":                  "INVOICER_JWT_ISSUER",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless INVOICER_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
		AssetsDir:     v.GetString("s3.assets_dir"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Notify = NotifyConfig{
		Provider:       v.GetString("notify.provider"),
		Region:         v.GetString("notify.region"),
		FromAddress:    v.GetString("notify.from_address"),
		FromName:       v.GetString("notify.from_name"),
		SendGridAPIKey: v.GetString("notify.sendgrid_api_key"),
		ResendAPIKey:   v.GetString("notify.resend_api_key"),
		SQSQueueURL:    v.GetString("notify.sqs_queue_url"),
	}
	cfg.Shopify = ShopifyConfig{
		WebhookSecret:     v.GetString("shopify.webhook_secret"),
		DefaultShopDomain: v.GetString("shopify.default_shop_domain"),
		Async:             v.GetBool("shopify.async"),
	}
	cfg.Invoice = InvoiceConfig{
		Template:     v.GetString("invoice.template"),
		FontFamily:   v.GetString("invoice.font_family"),
		PrimaryColor: v.GetString("invoice.primary_color"),
	}

	// Deployments predating the prefix set COMPANY_STATE directly.
	state := v.GetString("company.state")
	if state == "" {
		state = os.Getenv("COMPANY_STATE")
	}
	if state == "" {
		state = DefaultSellerState
	}
	cfg.Company = CompanyConfig{
		State:        state,
		Name:         v.GetString("company.name"),
		LegalName:    v.GetString("company.legal_name"),
		AddressLine1: v.GetString("company.address_line1"),
		AddressLine2: v.GetString("company.address_line2"),
		GSTIN:        v.GetString("company.gstin"),
		LogoFilename: v.GetString("company.logo_filename"),
		SupportEmail: v.GetString("company.support_email"),
		Phone:        v.GetString("company.phone"),
		OwnerEmail:   v.GetString("company.owner_email"),
	}
	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("rate_limit.rps"),
		Burst: v.GetInt("rate_limit.burst"),
	}
	cfg.JWT = JWTConfig{
		Secret:      v.GetString("jwt.secret"),
		TokenExpiry: v.GetDuration("jwt.token_expiry"),
		Issuer:      v.GetString("jwt.issuer"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
