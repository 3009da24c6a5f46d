package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	Storage     StorageConfig        `toml:"storage"`
	Logging     common.LoggingConfig `toml:"logging"`
	Auth        AuthConfig           `toml:"auth"`
	Ledger      LedgerConfig         `toml:"ledger"`
	Market      MarketConfig         `toml:"market"`
	AI          AIConfig             `toml:"ai"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Backend string       `toml:"backend"` // "badger" or "memory"
	Badger  BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// AuthConfig contains session token settings.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  string `toml:"token_ttl"`
	// DevUser is the uid requests act as when no session is present (dev mode only).
	DevUser string `toml:"dev_user"`
}

// LedgerConfig contains the virtual money settings.
type LedgerConfig struct {
	Currency     string `toml:"currency"`
	StartingCash string `toml:"starting_cash"`
}

// MarketConfig contains quote feed settings.
type MarketConfig struct {
	QuoteURL     string `toml:"quote_url"`  // e.g. https://example.com/quote?symbol={ticker}
	PricePath    string `toml:"price_path"` // JSONPath into the quote response
	CacheTTL     string `toml:"cache_ttl"`
	CacheEntries int    `toml:"cache_entries"`
	Timeout      string `toml:"timeout"`
}

// AIConfig contains content generator settings.
type AIConfig struct {
	Provider string `toml:"provider"` // "gemini" or "openai"
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PAISA_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PAISA_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("PAISA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PAISA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if backend := os.Getenv("PAISA_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if badgerPath := os.Getenv("PAISA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("PAISA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("PAISA_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = strings.Split(outputs, ",")
	}
	if secret := os.Getenv("PAISA_JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if devUser := os.Getenv("PAISA_DEV_USER"); devUser != "" {
		config.Auth.DevUser = devUser
	}
	if cash := os.Getenv("PAISA_STARTING_CASH"); cash != "" {
		config.Ledger.StartingCash = cash
	}
	if quoteURL := os.Getenv("PAISA_QUOTE_URL"); quoteURL != "" {
		config.Market.QuoteURL = quoteURL
	}
	if pricePath := os.Getenv("PAISA_PRICE_PATH"); pricePath != "" {
		config.Market.PricePath = pricePath
	}
	if provider := os.Getenv("PAISA_AI_PROVIDER"); provider != "" {
		config.AI.Provider = provider
	}
	if model := os.Getenv("PAISA_AI_MODEL"); model != "" {
		config.AI.Model = model
	}
	if key := os.Getenv("PAISA_AI_API_KEY"); key != "" {
		config.AI.APIKey = key
	}
	if baseURL := os.Getenv("PAISA_AI_BASE_URL"); baseURL != "" {
		config.AI.BaseURL = baseURL
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsDevMode reports whether the environment is "dev".
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Validate returns a list of mandatory-field problems, empty when the config is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	switch c.Storage.Backend {
	case "badger":
		if c.Storage.Badger.Path == "" {
			issues = append(issues, "storage.badger.path is required when storage.backend = \"badger\"")
		}
	case "memory":
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be \"badger\" or \"memory\" (got %q)", c.Storage.Backend))
	}
	if !c.IsDevMode() && c.Auth.JWTSecret == "" {
		issues = append(issues, "auth.jwt_secret is required outside dev mode (PAISA_JWT_SECRET)")
	}
	if cash, err := decimal.NewFromString(c.Ledger.StartingCash); err != nil || cash.IsNegative() {
		issues = append(issues, fmt.Sprintf("ledger.starting_cash must be a non-negative number (got %q)", c.Ledger.StartingCash))
	}
	switch c.AI.Provider {
	case "", "gemini", "openai":
	default:
		issues = append(issues, fmt.Sprintf("ai.provider must be \"gemini\" or \"openai\" (got %q)", c.AI.Provider))
	}
	for name, v := range map[string]string{
		"auth.token_ttl":   c.Auth.TokenTTL,
		"market.cache_ttl": c.Market.CacheTTL,
		"market.timeout":   c.Market.Timeout,
		"ai.timeout":       c.AI.Timeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			issues = append(issues, fmt.Sprintf("%s must be a duration such as \"30s\" (got %q)", name, v))
		}
	}

	return issues
}

// StartingCash returns the configured opening cash balance.
func (c *Config) StartingCash() decimal.Decimal {
	cash, err := decimal.NewFromString(c.Ledger.StartingCash)
	if err != nil {
		return decimal.NewFromInt(defaultStartingCash)
	}
	return cash
}

// Duration parses a config duration, falling back when it is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// BaseURL returns the HTTP base URL of the server.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}
