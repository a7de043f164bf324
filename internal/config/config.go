package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/logger"
	"gopkg.in/yaml.v3"
)

const (
	EnvSymbols    = "VIEWER_SYMBOLS"
	EnvIntervalMs = "VIEWER_INTERVAL_MS"
	EnvLogLevel   = "VIEWER_LOG_LEVEL"
	EnvHTTPPort   = "VIEWER_HTTP_PORT"
)

type Config struct {
	Symbols []string `yaml:"symbols"`
	Polling struct {
		IntervalMs int `yaml:"interval_ms"`
	} `yaml:"polling"`
	HTTP struct {
		TimeoutMs int `yaml:"timeout_ms"`
	} `yaml:"http"`
	Aggregator struct {
		SymbolConcurrency int `yaml:"symbol_concurrency"`
	} `yaml:"aggregator"`
	Exchanges map[string]ExchangeConfig    `yaml:"exchanges"`
	Mapping   map[string]map[string]string `yaml:"mapping"`
	Logging   logger.Config                `yaml:"logging"`
	Server    struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"server"`
	Console struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"console"`
}

type ExchangeConfig struct {
	Enabled           *bool   `yaml:"enabled"`
	SpotURL           string  `yaml:"spot_url"`
	FuturesURL        string  `yaml:"futures_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

func defaultExchange() ExchangeConfig {
	return ExchangeConfig{RequestsPerSecond: 10, Burst: 5}
}

// UnmarshalYAML decodes over the defaults, so an entry that only sets
// enabled or a URL keeps the stock rate limit.
func (e *ExchangeConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ExchangeConfig
	p := plain(defaultExchange())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = ExchangeConfig(p)
	return nil
}

// IsEnabled treats a missing flag as enabled.
func (e ExchangeConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Default returns the stock setup: three symbols on all four exchanges,
// refreshed every five seconds.
func Default() *Config {
	cfg := &Config{
		Symbols:   []string{"XRP", "DOGE", "AIXBT"},
		Exchanges: make(map[string]ExchangeConfig),
	}
	cfg.Polling.IntervalMs = 5000
	cfg.HTTP.TimeoutMs = 5000
	cfg.Aggregator.SymbolConcurrency = 1
	cfg.Logging = logger.Config{Level: "info", Format: "json", MaxAgeDays: 7}
	cfg.Server.Enabled = true
	cfg.Server.Port = 8080
	cfg.Console.Enabled = true
	for _, ex := range domain.Exchanges {
		cfg.Exchanges[string(ex)] = defaultExchange()
	}
	return cfg
}

// Load reads path over the defaults, then applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	// exchanges omitted from the file keep their defaults
	for _, ex := range domain.Exchanges {
		if _, ok := cfg.Exchanges[string(ex)]; !ok {
			cfg.Exchanges[string(ex)] = defaultExchange()
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if symbols := os.Getenv(EnvSymbols); symbols != "" {
		c.Symbols = strings.Split(symbols, ",")
	}
	if interval := os.Getenv(EnvIntervalMs); interval != "" {
		ms, err := strconv.Atoi(interval)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvIntervalMs, err)
		}
		c.Polling.IntervalMs = ms
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if port := os.Getenv(EnvHTTPPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPPort, err)
		}
		c.Server.Port = p
	}
	return nil
}

func (c *Config) normalize() {
	symbols := c.Symbols[:0]
	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	c.Symbols = symbols
}

func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("config: at least one symbol is required")
	}
	if c.Polling.IntervalMs <= 0 {
		return fmt.Errorf("config: polling.interval_ms must be positive, got %d", c.Polling.IntervalMs)
	}
	if c.HTTP.TimeoutMs <= 0 {
		return fmt.Errorf("config: http.timeout_ms must be positive, got %d", c.HTTP.TimeoutMs)
	}
	if c.Aggregator.SymbolConcurrency < 0 {
		return fmt.Errorf("config: aggregator.symbol_concurrency must not be negative, got %d", c.Aggregator.SymbolConcurrency)
	}
	for name, ex := range c.Exchanges {
		if _, err := domain.ParseExchangeID(name); err != nil {
			return fmt.Errorf("config: exchanges: %w", err)
		}
		if ex.RequestsPerSecond < 0 {
			return fmt.Errorf("config: exchanges.%s.requests_per_second must not be negative", name)
		}
	}
	for symbol, venues := range c.Mapping {
		for name := range venues {
			if _, err := domain.ParseExchangeID(name); err != nil {
				return fmt.Errorf("config: mapping.%s: %w", symbol, err)
			}
		}
	}
	if len(c.EnabledExchanges()) == 0 {
		return errors.New("config: no exchange is enabled")
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.Polling.IntervalMs) * time.Millisecond
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutMs) * time.Millisecond
}

// EnabledExchanges returns the enabled venues in display order.
func (c *Config) EnabledExchanges() []domain.ExchangeID {
	var out []domain.ExchangeID
	for _, ex := range domain.Exchanges {
		if cfg, ok := c.Exchanges[string(ex)]; ok && cfg.IsEnabled() {
			out = append(out, ex)
		}
	}
	return out
}

func (c *Config) Exchange(id domain.ExchangeID) ExchangeConfig {
	return c.Exchanges[string(id)]
}

// SymbolMapping layers the mapping section over the built-in table. A
// symbol listed in the file replaces its built-in entry entirely, so an
// exchange left out (or set to "") is unmapped for that symbol.
func (c *Config) SymbolMapping() *domain.SymbolMapping {
	table := domain.DefaultSymbolMapping().Table()
	for symbol, venues := range c.Mapping {
		entry := make(map[domain.ExchangeID]string, len(venues))
		for name, native := range venues {
			id, err := domain.ParseExchangeID(name)
			if err != nil {
				continue
			}
			entry[id] = strings.TrimSpace(native)
		}
		table[strings.ToUpper(strings.TrimSpace(symbol))] = entry
	}
	return domain.NewSymbolMapping(table)
}
