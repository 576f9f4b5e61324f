package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	HTTP     HTTPConfig
	POS      POSConfig
	Terminal TerminalConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds the terminal-local database settings
// Each register carries its own embedded SQLite store so finalized
// sales and the offline queue survive restarts
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	ConnMaxLifetime int // in minutes
}

// RedisConfig holds Redis connection settings
// Redis backs the held-order registry shared by the registers of one
// store; when unreachable the in-memory fallback serves a single
// register
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// POSConfig holds the transaction-engine policy knobs
type POSConfig struct {
	TaxRate          decimal.Decimal // fraction, e.g. 0.08
	PaymentTolerance decimal.Decimal // residual treated as fully paid
	MinimumAge       int
	ClampDiscounts   bool   // floor fixed discounts at the subtotal
	LocationID       string // active location of this terminal
	CashierID        string // operator bound to this terminal
}

// TerminalConfig holds the card terminal simulation settings
type TerminalConfig struct {
	CardPresentDelay time.Duration
	ProcessingDelay  time.Duration
	DeclineEvery     int // decline every Nth capture; 0 approves all
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with POS_ prefix (e.g., POS_REDIS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		POS: POSConfig{
			MinimumAge:     v.GetInt("pos.minimum_age"),
			ClampDiscounts: v.GetBool("pos.clamp_discounts"),
			LocationID:     v.GetString("pos.location_id"),
			CashierID:      v.GetString("pos.cashier_id"),
		},
		Terminal: TerminalConfig{
			CardPresentDelay: v.GetDuration("terminal.card_present_delay"),
			ProcessingDelay:  v.GetDuration("terminal.processing_delay"),
			DeclineEvery:     v.GetInt("terminal.decline_every"),
		},
	}

	var err error
	if cfg.POS.TaxRate, err = decimalOrZero(v.GetString("pos.tax_rate")); err != nil {
		return nil, fmt.Errorf("invalid pos.tax_rate: %w", err)
	}
	if cfg.POS.PaymentTolerance, err = decimalOrZero(v.GetString("pos.payment_tolerance")); err != nil {
		return nil, fmt.Errorf("invalid pos.payment_tolerance: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pos-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "pos.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		// SQLite serializes writers; one connection avoids lock churn
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.POS.TaxRate.IsZero() {
		cfg.POS.TaxRate = decimal.NewFromFloat(0.08)
	}
	if cfg.POS.PaymentTolerance.IsZero() {
		cfg.POS.PaymentTolerance = decimal.NewFromFloat(0.005)
	}
	if cfg.POS.MinimumAge == 0 {
		cfg.POS.MinimumAge = 21
	}
	if cfg.Terminal.CardPresentDelay == 0 {
		cfg.Terminal.CardPresentDelay = 2 * time.Second
	}
	if cfg.Terminal.ProcessingDelay == 0 {
		cfg.Terminal.ProcessingDelay = 2 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.POS.TaxRate.IsNegative() {
		return fmt.Errorf("pos.tax_rate cannot be negative")
	}
	if c.POS.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("pos.tax_rate is a fraction, got %s", c.POS.TaxRate)
	}
	if c.POS.PaymentTolerance.IsNegative() {
		return fmt.Errorf("pos.payment_tolerance cannot be negative")
	}
	if c.POS.MinimumAge < 0 {
		return fmt.Errorf("pos.minimum_age cannot be negative")
	}
	if c.Terminal.DeclineEvery < 0 {
		return fmt.Errorf("terminal.decline_every cannot be negative")
	}
	if c.App.Env == "production" {
		if c.POS.LocationID == "" {
			return fmt.Errorf("pos.location_id is required in production")
		}
		if c.Database.Path == ":memory:" {
			return fmt.Errorf("database.path cannot be ':memory:' in production")
		}
	}
	return nil
}

// Addr returns the Redis address in host:port form
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
