package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App        AppConfig
	Store      StoreConfig
	Snapshot   SnapshotConfig
	DB         DBConfig
	Redis      RedisConfig
	Checkout   CheckoutConfig
	SmartOrder SmartOrderConfig
	Fiscal     FiscalConfig
	Metrics    MetricsConfig
	Cron       CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PIZZAPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"PIZZAPOS_APP_PORT" default:"8085"`
	LogLevel     string `envconfig:"PIZZAPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PIZZAPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig carries the per-store data printed on receipts and used by the terminal.
type StoreConfig struct {
	Name             string `envconfig:"PIZZAPOS_STORE_NAME" default:"PizzaAI PDV"`
	CNPJ             string `envconfig:"PIZZAPOS_STORE_CNPJ"`
	Phone            string `envconfig:"PIZZAPOS_STORE_PHONE"`
	Address          string `envconfig:"PIZZAPOS_STORE_ADDRESS"`
	TerminalID       string `envconfig:"PIZZAPOS_TERMINAL_ID" default:"caixa-01"`
	PaperWidth       string `envconfig:"PIZZAPOS_PAPER_WIDTH" default:"80mm"`
	DeliveryFeesFile string `envconfig:"PIZZAPOS_DELIVERY_FEES_FILE"`
}

type SnapshotConfig struct {
	Driver string `envconfig:"PIZZAPOS_SNAPSHOT_DRIVER" default:"sqlite"`
}

type DBConfig struct {
	DSN             string        `envconfig:"PIZZAPOS_DB_DSN" default:"file:pizzapos.db?_busy_timeout=5000"`
	MaxOpenConns    int           `envconfig:"PIZZAPOS_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"PIZZAPOS_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"PIZZAPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"PIZZAPOS_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PIZZAPOS_REDIS_URL"`
	Address      string        `envconfig:"PIZZAPOS_REDIS_ADDR"`
	Password     string        `envconfig:"PIZZAPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PIZZAPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PIZZAPOS_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"PIZZAPOS_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"PIZZAPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PIZZAPOS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"PIZZAPOS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type CheckoutConfig struct {
	DefaultOrderType string `envconfig:"PIZZAPOS_DEFAULT_ORDER_TYPE" default:"DELIVERY"`

	// Tolerance is the settlement slack in BRL.
	Tolerance  string `envconfig:"PIZZAPOS_SETTLEMENT_TOLERANCE" default:"0.01"`
	AutoFiscal bool   `envconfig:"PIZZAPOS_AUTO_FISCAL" default:"false"`
}

type SmartOrderConfig struct {
	APIKey  string        `envconfig:"PIZZAPOS_OPENAI_API_KEY"`
	BaseURL string        `envconfig:"PIZZAPOS_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"PIZZAPOS_OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"PIZZAPOS_OPENAI_TIMEOUT" default:"30s"`

	// RateLimit caps parser calls per RateWindow; zero disables the limit.
	RateLimit  int           `envconfig:"PIZZAPOS_SMART_ORDER_RATE_LIMIT" default:"20"`
	RateWindow time.Duration `envconfig:"PIZZAPOS_SMART_ORDER_RATE_WINDOW" default:"1m"`
}

// Enabled reports whether an AI parser can be wired.
func (s SmartOrderConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

type FiscalConfig struct {
	Module         string  `envconfig:"PIZZAPOS_FISCAL_MODULE" default:"NONE"`
	Simulation     bool    `envconfig:"PIZZAPOS_FISCAL_SIMULATION" default:"true"`
	FailureRate    float64 `envconfig:"PIZZAPOS_FISCAL_FAILURE_RATE" default:"0.05"`
	ActivationCode string  `envconfig:"PIZZAPOS_SAT_ACTIVATION_CODE" default:"00000000"`
}

// NormalizedModule returns the upper-cased fiscal module name.
func (f FiscalConfig) NormalizedModule() string {
	module := strings.ToUpper(strings.TrimSpace(f.Module))
	if module == "" {
		return FiscalModuleNone
	}
	return module
}

// CronConfig drives the in-process housekeeping loop. A zero interval disables it.
type CronConfig struct {
	Interval             time.Duration `envconfig:"PIZZAPOS_CRON_INTERVAL" default:"1m"`
	DeliveryOverdueAfter time.Duration `envconfig:"PIZZAPOS_DELIVERY_OVERDUE_AFTER" default:"45m"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"PIZZAPOS_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"PIZZAPOS_METRICS_PATH" default:"/metrics"`
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Snapshot.Driver) {
	case SnapshotDriverSQLite:
	case SnapshotDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required when %s=%s", EnvRedisURL, EnvRedisAddr, EnvSnapshotDriver, SnapshotDriverRedis)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvSnapshotDriver, c.Snapshot.Driver)
	}

	switch c.NormalizedPaperWidth() {
	case PaperWidth80, PaperWidth58:
	default:
		return fmt.Errorf("unsupported %s %q", EnvPaperWidth, c.Store.PaperWidth)
	}

	switch c.Fiscal.NormalizedModule() {
	case FiscalModuleNone, FiscalModuleSAT, FiscalModuleNFCe:
	default:
		return fmt.Errorf("unsupported %s %q", EnvFiscalModule, c.Fiscal.Module)
	}
	if tolerance, err := decimal.NewFromString(strings.TrimSpace(c.Checkout.Tolerance)); err != nil || tolerance.IsNegative() {
		return fmt.Errorf("%s must be a non-negative decimal", EnvSettlementTolerance)
	}
	if c.Fiscal.FailureRate < 0 || c.Fiscal.FailureRate > 1 {
		return fmt.Errorf("%s must be between 0 and 1", EnvFiscalFailureRate)
	}
	return nil
}

// NormalizedPaperWidth trims and lower-cases the configured paper width.
func (c *Config) NormalizedPaperWidth() string {
	return strings.ToLower(strings.TrimSpace(c.Store.PaperWidth))
}
