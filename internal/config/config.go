package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"StockSentinel/internal/model"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string        `yaml:"provider"` // yahoo, vstrader or mock
		ChartURL      string        `yaml:"chart_url"`
		SummaryURL    string        `yaml:"summary_url"`
		BaseURL       string        `yaml:"base_url"`
		APIKey        string        `yaml:"api_key"`
		Period        string        `yaml:"period"`
		FetchTimeout  time.Duration `yaml:"fetch_timeout"`
		MockBasePrice float64       `yaml:"mock_base_price"`
	} `yaml:"data_source"`
	Universe map[string]string `yaml:"universe"`
	Scan     struct {
		Workers       int           `yaml:"workers"`
		Period        string        `yaml:"period"`
		Limit         int           `yaml:"limit"`
		SymbolTimeout time.Duration `yaml:"symbol_timeout"`
		MomentumCron  string        `yaml:"momentum_cron"`
		BreakoutCron  string        `yaml:"breakout_cron"`
		ReboundCron   string        `yaml:"rebound_cron"`
	} `yaml:"scan"`
	Ledger struct {
		File string `yaml:"file"`
	} `yaml:"ledger"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"telegram"`
	HTTP struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file, then applies environment overrides
// and defaults. A missing file yields a default configuration.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DATA_PROVIDER", &c.DataSource.Provider)
	setString("YAHOO_CHART_URL", &c.DataSource.ChartURL)
	setString("YAHOO_SUMMARY_URL", &c.DataSource.SummaryURL)
	setString("VSTRADER_BASE_URL", &c.DataSource.BaseURL)
	setString("VSTRADER_API_KEY", &c.DataSource.APIKey)
	setString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	setString("HTTPS_PROXY", &c.Proxy)
	setString("LEDGER_FILE", &c.Ledger.File)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("HTTP_ADDR", &c.HTTP.Addr)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("CRON_MOMENTUM", &c.Scan.MomentumCron)
	setString("CRON_BREAKOUT", &c.Scan.BreakoutCron)
	setString("CRON_REBOUND", &c.Scan.ReboundCron)

	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.Workers = n
		}
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		c.Log.Pretty, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		c.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Period == "" {
		c.DataSource.Period = string(model.Period1Y)
	}
	if c.DataSource.FetchTimeout == 0 {
		c.DataSource.FetchTimeout = 30 * time.Second
	}
	if c.DataSource.MockBasePrice == 0 {
		c.DataSource.MockBasePrice = 100
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 5
	}
	if c.Scan.Period == "" {
		c.Scan.Period = string(model.Period3M)
	}
	if c.Scan.Limit == 0 {
		c.Scan.Limit = 10
	}
	if c.Scan.SymbolTimeout == 0 {
		c.Scan.SymbolTimeout = 15 * time.Second
	}
	if c.Scan.MomentumCron == "" {
		c.Scan.MomentumCron = "0 0 17 * * 1-5"
	}
	if c.Scan.BreakoutCron == "" {
		c.Scan.BreakoutCron = "0 5 17 * * 1-5"
	}
	if c.Scan.ReboundCron == "" {
		c.Scan.ReboundCron = "0 10 17 * * 1-5"
	}
	if c.Ledger.File == "" {
		c.Ledger.File = "data/portfolio.yaml"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/stock_sentinel.db"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TelegramEnabled reports whether chat delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if _, err := model.ParsePeriod(c.DataSource.Period); err != nil {
		return fmt.Errorf("data_source.period: %w", err)
	}
	if _, err := model.ParsePeriod(c.Scan.Period); err != nil {
		return fmt.Errorf("scan.period: %w", err)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, expr := range map[string]string{
		"scan.momentum_cron": c.Scan.MomentumCron,
		"scan.breakout_cron": c.Scan.BreakoutCron,
		"scan.rebound_cron":  c.Scan.ReboundCron,
	} {
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
