package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/market_viewer/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"XRP", "DOGE", "AIXBT"}, cfg.Symbols)
	assert.Equal(t, 5*time.Second, cfg.Interval())
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, domain.Exchanges, cfg.EnabledExchanges())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
symbols: [xrp, " doge ", XRP]
polling:
  interval_ms: 2000
http:
  timeout_ms: 1500
aggregator:
  symbol_concurrency: 3
exchanges:
  upbit:
    enabled: false
  binance:
    spot_url: http://localhost:9000/api/v3
    requests_per_second: 2
mapping:
  PEPE:
    bybit: PEPEUSDT
    binance: PEPEUSDT
logging:
  level: debug
server:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"XRP", "DOGE"}, cfg.Symbols)
	assert.Equal(t, 2*time.Second, cfg.Interval())
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
	assert.Equal(t, 3, cfg.Aggregator.SymbolConcurrency)
	assert.Equal(t, []domain.ExchangeID{domain.ExchangeBybit, domain.ExchangeBinance, domain.ExchangeBitget}, cfg.EnabledExchanges())
	assert.Equal(t, "http://localhost:9000/api/v3", cfg.Exchange(domain.ExchangeBinance).SpotURL)
	assert.Equal(t, 2.0, cfg.Exchange(domain.ExchangeBinance).RequestsPerSecond)
	assert.Equal(t, 10.0, cfg.Exchange(domain.ExchangeBybit).RequestsPerSecond, "unlisted exchange keeps defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format, "unset logging fields keep defaults")
	assert.False(t, cfg.Server.Enabled)

	m := cfg.SymbolMapping()
	native, ok := m.Lookup("PEPE", domain.ExchangeBybit)
	assert.True(t, ok)
	assert.Equal(t, "PEPEUSDT", native)
	_, ok = m.Lookup("PEPE", domain.ExchangeUpbit)
	assert.False(t, ok)
	native, _ = m.Lookup("XRP", domain.ExchangeUpbit)
	assert.Equal(t, "KRW-XRP", native, "built-in entries survive")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvSymbols, "btc,eth")
	t.Setenv(EnvIntervalMs, "750")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvHTTPPort, "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC", "ETH"}, cfg.Symbols)
	assert.Equal(t, 750*time.Millisecond, cfg.Interval())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv(EnvIntervalMs, "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyFileIsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Len(t, cfg.Symbols, 3)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"zero interval", func(c *Config) { c.Polling.IntervalMs = 0 }},
		{"negative timeout", func(c *Config) { c.HTTP.TimeoutMs = -1 }},
		{"unknown exchange", func(c *Config) { c.Exchanges["kraken"] = ExchangeConfig{} }},
		{"unknown mapping exchange", func(c *Config) {
			c.Mapping = map[string]map[string]string{"XRP": {"kraken": "XRPUSD"}}
		}},
		{"all disabled", func(c *Config) {
			off := false
			for name := range c.Exchanges {
				c.Exchanges[name] = ExchangeConfig{Enabled: &off}
			}
		}},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoad_PartialExchangeKeepsRateLimit(t *testing.T) {
	path := writeConfig(t, `
exchanges:
  bybit:
    enabled: true
  upbit:
    spot_url: http://localhost:9001/v1
    burst: 2
  bitget:
    requests_per_second: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	bybit := cfg.Exchange(domain.ExchangeBybit)
	assert.Equal(t, 10.0, bybit.RequestsPerSecond)
	assert.Equal(t, 5, bybit.Burst)
	assert.True(t, bybit.IsEnabled())

	upbit := cfg.Exchange(domain.ExchangeUpbit)
	assert.Equal(t, "http://localhost:9001/v1", upbit.SpotURL)
	assert.Equal(t, 10.0, upbit.RequestsPerSecond)
	assert.Equal(t, 2, upbit.Burst)

	// an explicit 0 still turns the limiter off
	assert.Zero(t, cfg.Exchange(domain.ExchangeBitget).RequestsPerSecond)
}
