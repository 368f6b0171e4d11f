package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/camuig/shuumulator/internal/strategy"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Trading  TradingConfig  `yaml:"trading"`
	Minkabu  MinkabuConfig  `yaml:"minkabu"`
	Telegram TelegramConfig `yaml:"telegram"`
	Web      WebConfig      `yaml:"web"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type TradingConfig struct {
	// Decimal string, e.g. "0.025".
	ProfitBookingRate string `yaml:"profit_booking_rate"`
	UserID            uint   `yaml:"user_id"`
	FetchDelay        string `yaml:"fetch_delay"`
	Interval          string `yaml:"interval"`
}

type MinkabuConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML config at path. Secrets may come from the environment
// or a .env file in the working directory; a missing .env is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SHUUMULATOR_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == DriverSQLite {
		cfg.Database.DSN = "data/shuumulator.db"
	}
	if cfg.Trading.ProfitBookingRate == "" {
		cfg.Trading.ProfitBookingRate = "0.025"
	}
	if cfg.Trading.UserID == 0 {
		cfg.Trading.UserID = 1
	}
	if cfg.Trading.FetchDelay == "" {
		cfg.Trading.FetchDelay = "5s"
	}
	if cfg.Trading.Interval == "" {
		cfg.Trading.Interval = "1h"
	}
	if cfg.Minkabu.BaseURL == "" {
		cfg.Minkabu.BaseURL = "https://minkabu.jp"
	}
	if cfg.Minkabu.TimeoutSeconds == 0 {
		cfg.Minkabu.TimeoutSeconds = 30
	}
	if cfg.Minkabu.UserAgent == "" {
		cfg.Minkabu.UserAgent = "Mozilla/5.0 (compatible; shuumulator/1.0)"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	rate, err := decimal.NewFromString(c.Trading.ProfitBookingRate)
	if err != nil {
		return fmt.Errorf("invalid trading.profit_booking_rate %q: %w", c.Trading.ProfitBookingRate, err)
	}
	if err := strategy.ValidateRate("trading.profit_booking_rate", rate); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.Trading.FetchDelay); err != nil {
		return fmt.Errorf("invalid trading.fetch_delay %q: %w", c.Trading.FetchDelay, err)
	}
	if d, err := time.ParseDuration(c.Trading.Interval); err != nil || d <= 0 {
		return fmt.Errorf("invalid trading.interval %q", c.Trading.Interval)
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

// ProfitBookingRate is read once per run.
func (c *Config) ProfitBookingRate() decimal.Decimal {
	return decimal.RequireFromString(c.Trading.ProfitBookingRate)
}

func (c *Config) FetchDelay() time.Duration {
	d, _ := time.ParseDuration(c.Trading.FetchDelay)
	return d
}

func (c *Config) TradingInterval() time.Duration {
	d, _ := time.ParseDuration(c.Trading.Interval)
	return d
}

func (c *Config) MinkabuTimeout() time.Duration {
	return time.Duration(c.Minkabu.TimeoutSeconds) * time.Second
}

// TokyoLocation is the exchange time zone used for market hours.
func (c *Config) TokyoLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	return loc
}
