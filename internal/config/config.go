package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SMCSentinel/internal/collector"
	"SMCSentinel/internal/smc"
)

// Supported data providers.
const (
	ProviderYahoo    = "yahoo"
	ProviderVsTrader = "vstrader"
	ProviderMock     = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string   `yaml:"provider"`
		BaseURL  string   `yaml:"base_url"`
		APIKey   string   `yaml:"api_key"`
		Symbols  []string `yaml:"symbols"`
		Interval string   `yaml:"interval"`
		Bars     int      `yaml:"bars"`
	} `yaml:"data_source"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	SMC      smc.Params `yaml:"smc"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadDotEnv loads a .env file into the environment if present. Variables already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides and
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	setString("DATA_PROVIDER", &c.DataSource.Provider)
	setString("VSTRADER_BASE_URL", &c.DataSource.BaseURL)
	setString("VSTRADER_API_KEY", &c.DataSource.APIKey)
	setString("BAR_INTERVAL", &c.DataSource.Interval)
	setString("HTTPS_PROXY", &c.Proxy)
	setString("CRON_ANALYSIS", &c.Schedule.AnalysisCron)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.DataSource.Symbols = splitSymbols(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BARS", &c.DataSource.Bars},
		{"SMC_SWING_WINDOW", &c.SMC.SwingWindow},
		{"SMC_OB_LOOKBACK", &c.SMC.OBLookback},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"SMC_OB_VOLUME_MULTIPLIER", &c.SMC.OBVolumeMultiplier},
		{"SMC_FVG_MIN_GAP_PCT", &c.SMC.FVGMinGapPct},
	}
	for _, e := range floats {
		if v := os.Getenv(e.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = f
		}
	}
	return nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

// applyDefaults fills unset fields. Zero SMC values take the documented defaults; an
// explicit zero gap threshold cannot be expressed in YAML and is treated the same way.
func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if len(c.DataSource.Symbols) == 0 {
		c.DataSource.Symbols = []string{"BTC-USD"}
	}
	if c.DataSource.Interval == "" {
		c.DataSource.Interval = "1h"
	}
	if c.DataSource.Bars == 0 {
		c.DataSource.Bars = 200
	}
	if c.Schedule.AnalysisCron == "" {
		c.Schedule.AnalysisCron = "0 5 * * * *"
	}

	def := smc.DefaultParams()
	if c.SMC.SwingWindow == 0 {
		c.SMC.SwingWindow = def.SwingWindow
	}
	if c.SMC.OBVolumeMultiplier == 0 {
		c.SMC.OBVolumeMultiplier = def.OBVolumeMultiplier
	}
	if c.SMC.OBLookback == 0 {
		c.SMC.OBLookback = def.OBLookback
	}
	if c.SMC.FVGMinGapPct == 0 {
		c.SMC.FVGMinGapPct = def.FVGMinGapPct
	}

	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/smc_sentinel.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderVsTrader:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderVsTrader)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if err := c.SMC.Validate(); err != nil {
		return fmt.Errorf("smc: %w", err)
	}
	if need := c.SMC.MinBars(); c.DataSource.Bars < need {
		return fmt.Errorf("data_source.bars must be at least %d for swing_window %d", need, c.SMC.SwingWindow)
	}
	if _, err := collector.ParseInterval(c.DataSource.Interval); err != nil {
		return fmt.Errorf("data_source.interval: %w", err)
	}
	return nil
}
