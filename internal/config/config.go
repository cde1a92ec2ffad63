// Package config собирает конфигурацию сервиса из окружения.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the service configuration.
// Tokens and Currencies are comma-separated lists; PollInterval defaults to
// 61s to stay under the CoinGecko rate limit.
type Config struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	Tokens       string        `envconfig:"TOKENS" default:"bitcoin,ethereum"`
	Currencies   string        `envconfig:"CURRENCIES" default:"USD,EUR"`
	GeckoURL     string        `envconfig:"GECKO_URL" default:"https://api.coingecko.com"`
	Precision    string        `envconfig:"PRECISION" default:"6"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"61s"`
	RedisAddr    string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"30s"`
	CacheEnabled bool          `envconfig:"CACHE_ENABLED" default:"false"`
}

// Option is a function that modifies Config.
type Option func(*Config) error

// WithEnvFile loads configuration from a .env file before processing the environment.
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	}
}

// WithPrecision overrides the precision value.
func WithPrecision(precision string) Option {
	return func(c *Config) error {
		c.Precision = precision
		return nil
	}
}

// WithAddr overrides the HTTP listen address.
func WithAddr(addr string) Option {
	return func(c *Config) error {
		c.Addr = addr
		return nil
	}
}

// New creates a validated Config instance. Options run after the environment
// is processed, so they take precedence.
func New(opts ...Option) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.GeckoURL); err != nil {
		return fmt.Errorf("invalid CoinGecko URL %q: %w", c.GeckoURL, err)
	}

	if _, err := strconv.Atoi(c.Precision); err != nil {
		return fmt.Errorf("precision must be numeric, got %q", c.Precision)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}

	if len(c.TokenList()) == 0 {
		return fmt.Errorf("no tokens specified")
	}
	for _, token := range strings.Split(c.Tokens, ",") {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("empty token in list")
		}
	}

	if len(c.CurrencyList()) == 0 {
		return fmt.Errorf("no currencies specified")
	}

	return nil
}

// TokenList returns the registered symbols as a slice.
func (c *Config) TokenList() []string {
	return splitList(c.Tokens)
}

// CurrencyList returns the allowed currency codes as a slice.
func (c *Config) CurrencyList() []string {
	return splitList(c.Currencies)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
