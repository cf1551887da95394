package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMCSentinel/internal/collector"
	"SMCSentinel/internal/smc"
)

var envKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATA_PROVIDER", "VSTRADER_BASE_URL", "VSTRADER_API_KEY",
	"SYMBOLS", "BAR_INTERVAL", "BARS", "HTTPS_PROXY", "CRON_ANALYSIS", "SQLITE_PATH", "LOG_LEVEL", "LOG_FORMAT",
	"SMC_SWING_WINDOW", "SMC_OB_VOLUME_MULTIPLIER", "SMC_OB_LOOKBACK", "SMC_FVG_MIN_GAP_PCT",
}

// clearEnv blanks every override so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, []string{"BTC-USD"}, cfg.DataSource.Symbols)
	assert.Equal(t, "1h", cfg.DataSource.Interval)
	assert.Equal(t, 200, cfg.DataSource.Bars)
	assert.Equal(t, "0 5 * * * *", cfg.Schedule.AnalysisCron)
	assert.Equal(t, smc.DefaultParams(), cfg.SMC)
	assert.Equal(t, "data/smc_sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
telegram:
  bot_token: "123:abc"
  chat_id: "-1001"
data_source:
  provider: VsTrader
  base_url: http://localhost:8080
  symbols: [BTCUSDT, ETHUSDT]
  interval: 4h
  bars: 300
smc:
  swing_window: 3
  ob_volume_multiplier: 2
  fvg_min_gap_pct: 0.25
log:
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, ProviderVsTrader, cfg.DataSource.Provider)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.DataSource.Symbols)
	assert.Equal(t, "4h", cfg.DataSource.Interval)
	assert.Equal(t, 300, cfg.DataSource.Bars)
	assert.Equal(t, smc.Params{SwingWindow: 3, OBVolumeMultiplier: 2, OBLookback: 20, FVGMinGapPct: 0.25}, cfg.SMC)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "data_source:\n  symbols: [SOL-USD]\n")

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SYMBOLS", "btc-usd, eth-usd,,")
	t.Setenv("BARS", "500")
	t.Setenv("SMC_SWING_WINDOW", "7")
	t.Setenv("SMC_OB_VOLUME_MULTIPLIER", "1.8")
	t.Setenv("CRON_ANALYSIS", "0 */15 * * * *")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, []string{"BTC-USD", "ETH-USD"}, cfg.DataSource.Symbols)
	assert.Equal(t, 500, cfg.DataSource.Bars)
	assert.Equal(t, 7, cfg.SMC.SwingWindow)
	assert.Equal(t, 1.8, cfg.SMC.OBVolumeMultiplier)
	assert.Equal(t, "0 */15 * * * *", cfg.Schedule.AnalysisCron)
}

func TestLoad_BadInput(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "config.yaml", "telegram: [not, a, map"))
	assert.Error(t, err)

	t.Setenv("SMC_OB_LOOKBACK", "twenty")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMC_OB_LOOKBACK")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	// godotenv does not override variables that are already set, so unset it first.
	t.Setenv("TELEGRAM_CHAT_ID", "")
	require.NoError(t, os.Unsetenv("TELEGRAM_CHAT_ID"))
	path := writeFile(t, ".env", "TELEGRAM_CHAT_ID=999\n")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "999", os.Getenv("TELEGRAM_CHAT_ID"))
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "42"
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, "bot_token"},
		{"missing chat", func(c *Config) { c.Telegram.ChatID = "" }, "chat_id"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "binance" }, "not supported"},
		{"vstrader without url", func(c *Config) { c.DataSource.Provider = ProviderVsTrader }, "base_url"},
		{"no symbols", func(c *Config) { c.DataSource.Symbols = nil }, "symbols"},
		{"too few bars", func(c *Config) { c.DataSource.Bars = 10 }, "at least 11"},
		{"bad interval", func(c *Config) { c.DataSource.Interval = "1y" }, "interval"},
		{"bad smc", func(c *Config) { c.SMC.OBLookback = -1 }, "smc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := validConfig(t)
	cfg.DataSource.Interval = "1y"
	assert.ErrorIs(t, cfg.Validate(), collector.ErrUnsupportedInterval)
}
