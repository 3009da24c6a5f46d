package config

import "github.com/bobmcallan/paisa-buddy/internal/common"

const defaultStartingCash = 100000

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4251,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Backend: "badger",
			Badger: BadgerConfig{
				Path: "./data/paisa",
			},
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "./logs/paisa-buddy.log",
			MaxSizeMB:  1,
			MaxBackups: 10,
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
			DevUser:  "dev-user",
		},
		Ledger: LedgerConfig{
			Currency:     common.DefaultCurrency,
			StartingCash: "100000",
		},
		Market: MarketConfig{
			CacheTTL:     "1m",
			CacheEntries: 256,
			Timeout:      "10s",
		},
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "30s",
		},
	}
}
