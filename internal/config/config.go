// Package config provides configuration management for the simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Market    MarketConfig    `mapstructure:"market"`
	Execution ExecutionConfig `mapstructure:"execution"`
	UI        UIConfig        `mapstructure:"ui"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Symbols   []SymbolConfig  `mapstructure:"symbols"`
}

// MarketConfig holds market simulation parameters.
type MarketConfig struct {
	RiskFreeRate    float64       `mapstructure:"risk_free_rate"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	DefaultSymbol   string        `mapstructure:"default_symbol"`
	DefaultExpiry   string        `mapstructure:"default_expiry"` // YYYY-MM-DD
	Seed            int64         `mapstructure:"seed"`           // 0 = time-seeded
}

// ExecutionConfig holds simulated execution parameters.
type ExecutionConfig struct {
	FillProbability float64       `mapstructure:"fill_probability"`
	OrderLatency    time.Duration `mapstructure:"order_latency"`
	BasketLatency   time.Duration `mapstructure:"basket_latency"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	Professional bool   `mapstructure:"professional"` // show IV/delta columns
	DateFormat   string `mapstructure:"date_format"`
}

// StorageConfig holds trade ledger storage settings. An empty
// ledger_path keeps the ledger in memory; setting a file path makes
// order and trade history survive across runs.
type StorageConfig struct {
	LedgerPath string `mapstructure:"ledger_path"`
}

// SymbolConfig describes one tradeable underlying.
type SymbolConfig struct {
	Symbol   string  `mapstructure:"symbol"`
	LotSize  int     `mapstructure:"lot_size"`
	TickSize float64 `mapstructure:"tick_size"`
	Sector   string  `mapstructure:"sector"`
	Spot     float64 `mapstructure:"spot"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionsim"
	}
	return filepath.Join(home, ".config", "optionsim")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			RiskFreeRate:    0.065,
			RefreshInterval: 5 * time.Second,
			DefaultSymbol:   "NIFTY",
		},
		Execution: ExecutionConfig{
			FillProbability: 0.95,
			OrderLatency:    1500 * time.Millisecond,
			BasketLatency:   2 * time.Second,
		},
		UI: UIConfig{
			ColorEnabled: true,
			Professional: true,
			DateFormat:   "2006-01-02",
		},
	}
}

// Load loads configuration from the specified directory, falling back to
// defaults when no config file exists. If configDir is empty the default
// directory is used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("market.risk_free_rate", cfg.Market.RiskFreeRate)
	v.SetDefault("market.refresh_interval", cfg.Market.RefreshInterval)
	v.SetDefault("market.default_symbol", cfg.Market.DefaultSymbol)
	v.SetDefault("execution.fill_probability", cfg.Execution.FillProbability)
	v.SetDefault("execution.order_latency", cfg.Execution.OrderLatency)
	v.SetDefault("execution.basket_latency", cfg.Execution.BasketLatency)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.professional", cfg.UI.Professional)
	v.SetDefault("ui.date_format", cfg.UI.DateFormat)
	v.SetDefault("storage.ledger_path", cfg.Storage.LedgerPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONSIM_FILL_PROBABILITY"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Execution.FillProbability = p
		}
	}
	if v := os.Getenv("OPTIONSIM_SEED"); v != "" {
		if s, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Market.Seed = s
		}
	}
	if v := os.Getenv("OPTIONSIM_SYMBOL"); v != "" {
		cfg.Market.DefaultSymbol = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Market.RiskFreeRate < 0 || c.Market.RiskFreeRate > 1 {
		return fmt.Errorf("risk_free_rate must be between 0 and 1")
	}
	if c.Execution.FillProbability < 0 || c.Execution.FillProbability > 1 {
		return fmt.Errorf("fill_probability must be between 0 and 1")
	}
	if c.Market.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval must be at least 1s")
	}
	for _, s := range c.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("symbol name must not be empty")
		}
		if s.LotSize <= 0 {
			return fmt.Errorf("lot_size for %s must be positive", s.Symbol)
		}
		if s.Spot <= 0 {
			return fmt.Errorf("spot for %s must be positive", s.Symbol)
		}
	}
	return nil
}

// Instruments converts configured symbols into instruments, falling back
// to the built-in registry when none are configured.
func (c *Config) Instruments(defaults []models.Instrument) []models.Instrument {
	if len(c.Symbols) == 0 {
		return defaults
	}
	instruments := make([]models.Instrument, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		tick := s.TickSize
		if tick == 0 {
			tick = 0.05
		}
		instruments = append(instruments, models.Instrument{
			Symbol:          s.Symbol,
			LotSize:         s.LotSize,
			TickSize:        tick,
			Sector:          s.Sector,
			UnderlyingPrice: s.Spot,
		})
	}
	return instruments
}
