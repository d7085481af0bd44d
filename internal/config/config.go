package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"StockSMA/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. SMA_SERVER_ADDR.
const EnvPrefix = "SMA"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr" envconfig:"ADDR"`
		ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
		RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"` // 0 disables
		RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
	} `yaml:"server" envconfig:"SERVER"`
	DataSource struct {
		Provider        string        `yaml:"provider" envconfig:"PROVIDER"`
		BaseURL         string        `yaml:"base_url" envconfig:"BASE_URL"`
		Proxy           string        `yaml:"proxy" envconfig:"PROXY"`
		AlpacaKey       string        `yaml:"alpaca_key" envconfig:"ALPACA_KEY"`
		AlpacaSecret    string        `yaml:"alpaca_secret" envconfig:"ALPACA_SECRET"`
		Timezone        string        `yaml:"timezone" envconfig:"TIMEZONE"`
		HistoryPeriod   string        `yaml:"history_period" envconfig:"HISTORY_PERIOD"`
		UpstreamTimeout time.Duration `yaml:"upstream_timeout" envconfig:"UPSTREAM_TIMEOUT"`
	} `yaml:"data_source" envconfig:"DATA_SOURCE"`
	Schedule struct {
		BoardCron   string        `yaml:"board_cron" envconfig:"BOARD_CRON"`
		BoardMaxAge time.Duration `yaml:"board_max_age" envconfig:"BOARD_MAX_AGE"`
	} `yaml:"schedule" envconfig:"SCHEDULE"`
	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID"`
	} `yaml:"telegram" envconfig:"TELEGRAM"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database" envconfig:"DATABASE"`
	Logging struct {
		Level  string `yaml:"level" envconfig:"LEVEL"`
		Format string `yaml:"format" envconfig:"FORMAT"`
		File   string `yaml:"file" envconfig:"FILE"`
	} `yaml:"logging" envconfig:"LOGGING"`
	Companies []model.Company `yaml:"companies" ignored:"true"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Seeded before parsing so an explicit 0 in the file or environment
	// disables rate limiting.
	cfg.Server.RateLimitRPS = 20
	cfg.Server.RateLimitBurst = 40

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides; unset variables leave fields untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" && cfg.DataSource.Proxy == "" {
		cfg.DataSource.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 45 * time.Second
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Timezone == "" {
		cfg.DataSource.Timezone = "America/New_York"
	}
	if cfg.DataSource.HistoryPeriod == "" {
		cfg.DataSource.HistoryPeriod = "1y"
	}
	if cfg.DataSource.UpstreamTimeout == 0 {
		cfg.DataSource.UpstreamTimeout = 20 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if len(cfg.Companies) == 0 {
		cfg.Companies = model.DefaultCompanies
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "financego", "mock":
	case "alpaca":
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source.alpaca_key and data_source.alpaca_secret are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, financego, alpaca, mock", c.DataSource.Provider)
	}
	if _, err := time.LoadLocation(c.DataSource.Timezone); err != nil {
		return fmt.Errorf("data_source.timezone: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("server.rate_limit_rps must not be negative")
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}
	for i, co := range c.Companies {
		if co.Ticker == "" {
			return fmt.Errorf("companies[%d].ticker is required", i)
		}
	}
	return nil
}

// Location returns the configured exchange timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DataSource.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
