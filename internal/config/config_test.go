package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Market.RiskFreeRate != 0.065 {
		t.Errorf("RiskFreeRate = %v, want 0.065", cfg.Market.RiskFreeRate)
	}
	if cfg.Market.RefreshInterval != 5*time.Second {
		t.Errorf("RefreshInterval = %v, want 5s", cfg.Market.RefreshInterval)
	}
	if cfg.Execution.FillProbability != 0.95 {
		t.Errorf("FillProbability = %v, want 0.95", cfg.Execution.FillProbability)
	}
	if cfg.Market.DefaultSymbol != "NIFTY" {
		t.Errorf("DefaultSymbol = %s, want NIFTY", cfg.Market.DefaultSymbol)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[market]
risk_free_rate = 0.07
default_symbol = "BANKNIFTY"
refresh_interval = "10s"

[execution]
fill_probability = 0.8

[storage]
ledger_path = "/tmp/optionsim-ledger.db"

[[symbols]]
symbol = "MIDCPNIFTY"
lot_size = 75
spot = 10250.40
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Market.RiskFreeRate != 0.07 {
		t.Errorf("RiskFreeRate = %v, want 0.07", cfg.Market.RiskFreeRate)
	}
	if cfg.Market.DefaultSymbol != "BANKNIFTY" {
		t.Errorf("DefaultSymbol = %s, want BANKNIFTY", cfg.Market.DefaultSymbol)
	}
	if cfg.Market.RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want 10s", cfg.Market.RefreshInterval)
	}
	if cfg.Execution.FillProbability != 0.8 {
		t.Errorf("FillProbability = %v, want 0.8", cfg.Execution.FillProbability)
	}
	if cfg.Storage.LedgerPath != "/tmp/optionsim-ledger.db" {
		t.Errorf("LedgerPath = %q, want configured path", cfg.Storage.LedgerPath)
	}

	instruments := cfg.Instruments(nil)
	if len(instruments) != 1 {
		t.Fatalf("instruments = %d, want 1", len(instruments))
	}
	if instruments[0].Symbol != "MIDCPNIFTY" || instruments[0].LotSize != 75 {
		t.Errorf("instrument = %+v", instruments[0])
	}
	if instruments[0].TickSize != 0.05 {
		t.Errorf("TickSize default = %v, want 0.05", instruments[0].TickSize)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.Execution.FillProbability = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("fill_probability > 1 accepted")
	}

	cfg = Default()
	cfg.Market.RefreshInterval = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("sub-second refresh_interval accepted")
	}

	cfg = Default()
	cfg.Symbols = []SymbolConfig{{Symbol: "NIFTY", LotSize: 0, Spot: 21000}}
	if err := cfg.Validate(); err == nil {
		t.Error("zero lot_size accepted")
	}
}

func TestInstrumentsFallsBackToDefaults(t *testing.T) {
	cfg := Default()
	defaults := []models.Instrument{{Symbol: "NIFTY", LotSize: 50, UnderlyingPrice: 21347.50}}

	instruments := cfg.Instruments(defaults)
	if len(instruments) != 1 || instruments[0].Symbol != "NIFTY" {
		t.Errorf("fallback instruments = %+v", instruments)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPTIONSIM_FILL_PROBABILITY", "0.5")
	t.Setenv("OPTIONSIM_SYMBOL", "FINNIFTY")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Execution.FillProbability != 0.5 {
		t.Errorf("FillProbability = %v, want env override 0.5", cfg.Execution.FillProbability)
	}
	if cfg.Market.DefaultSymbol != "FINNIFTY" {
		t.Errorf("DefaultSymbol = %s, want FINNIFTY", cfg.Market.DefaultSymbol)
	}
}
