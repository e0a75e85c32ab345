package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Agent        AgentConfig
	Uploads      UploadsConfig
	OpenAI       OpenAIConfig
	Gemini       GeminiConfig
	Stripe       StripeConfig
	Paystack     PaystackConfig
	PayPal       PayPalConfig
	Bank         BankConfig
	Sendgrid     SendgridConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERLINE_DB_DSN" required:"true"`
	Driver string `envconfig:"ORDERLINE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"ORDERLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERLINE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"ORDERLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ORDERLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ORDERLINE_AUTO_MIGRATE" default:"false"`
}

type AgentConfig struct {
	MemorySize    int    `envconfig:"ORDERLINE_AGENT_MEMORY_SIZE" default:"10"`
	ComplaintInfo string `envconfig:"ORDERLINE_AGENT_COMPLAINT_INFO" default:"For complaints --- contact at email wisetee01@gmail.com OR number 08012356678"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"ORDERLINE_UPLOADS_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"ORDERLINE_MAX_UPLOAD_MB" default:"5"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"ORDERLINE_OPENAI_API_KEY"`
	Model  string `envconfig:"ORDERLINE_OPENAI_MODEL" default:"gpt-3.5-turbo"`
}

type GeminiConfig struct {
	APIKey string `envconfig:"ORDERLINE_GEMINI_API_KEY"`
	Model  string `envconfig:"ORDERLINE_GEMINI_MODEL" default:"gemini-2.5-flash"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"ORDERLINE_STRIPE_API_KEY"`
	SuccessURL string `envconfig:"ORDERLINE_STRIPE_SUCCESS_URL" default:"https://yourbusiness.com/success"`
	CancelURL  string `envconfig:"ORDERLINE_STRIPE_CANCEL_URL" default:"https://yourbusiness.com/cancel"`
}

// Enabled reports whether Stripe checkout generation can run.
func (s StripeConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

type PaystackConfig struct {
	SecretKey   string `envconfig:"ORDERLINE_PAYSTACK_SECRET_KEY"`
	CallbackURL string `envconfig:"ORDERLINE_PAYSTACK_CALLBACK_URL" default:"https://yourbusiness.com/verify"`
}

func (p PaystackConfig) Enabled() bool {
	return strings.TrimSpace(p.SecretKey) != ""
}

type PayPalConfig struct {
	ClientID  string `envconfig:"ORDERLINE_PAYPAL_CLIENT_ID"`
	Secret    string `envconfig:"ORDERLINE_PAYPAL_SECRET"`
	Mode      string `envconfig:"ORDERLINE_PAYPAL_MODE" default:"sandbox"`
	ReturnURL string `envconfig:"ORDERLINE_PAYPAL_RETURN_URL" default:"https://yourbusiness.com/paypal-success"`
	CancelURL string `envconfig:"ORDERLINE_PAYPAL_CANCEL_URL" default:"https://yourbusiness.com/cancel"`
}

func (p PayPalConfig) Enabled() bool {
	return strings.TrimSpace(p.ClientID) != "" && strings.TrimSpace(p.Secret) != ""
}

// BaseURL resolves the PayPal API host for the configured mode.
func (p PayPalConfig) BaseURL() string {
	if strings.EqualFold(strings.TrimSpace(p.Mode), "live") {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}

type BankConfig struct {
	BankName      string `envconfig:"ORDERLINE_BANK_NAME"`
	AccountName   string `envconfig:"ORDERLINE_BANK_ACCOUNT_NAME"`
	AccountNumber string `envconfig:"ORDERLINE_BANK_ACCOUNT_NUMBER"`
}

func (b BankConfig) Enabled() bool {
	return strings.TrimSpace(b.BankName) != "" &&
		strings.TrimSpace(b.AccountName) != "" &&
		strings.TrimSpace(b.AccountNumber) != ""
}

type SendgridConfig struct {
	APIKey     string `envconfig:"ORDERLINE_SENDGRID_API_KEY"`
	FromEmail  string `envconfig:"ORDERLINE_SENDGRID_FROM_EMAIL"`
	OwnerEmail string `envconfig:"ORDERLINE_OWNER_EMAIL"`
}

func (s SendgridConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != "" &&
		strings.TrimSpace(s.FromEmail) != "" &&
		strings.TrimSpace(s.OwnerEmail) != ""
}
