// Package market generates the synthetic option market: strike ladders,
// open interest, volume, and price drift around a configured registry of
// Indian index and equity underlyings.
package market

import (
	"sort"
	"sync"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// Registry holds the tradeable instruments. Underlying prices drift as the
// simulation refreshes; everything else is fixed per symbol.
type Registry struct {
	mu          sync.RWMutex
	instruments map[string]*models.Instrument
}

// DefaultInstruments returns the built-in NSE symbol set.
func DefaultInstruments() []models.Instrument {
	return []models.Instrument{
		{Symbol: "NIFTY", LotSize: 50, TickSize: 0.05, Sector: "Index", UnderlyingPrice: 21347.50},
		{Symbol: "BANKNIFTY", LotSize: 15, TickSize: 0.05, Sector: "Banking Index", UnderlyingPrice: 46284.70},
		{Symbol: "FINNIFTY", LotSize: 40, TickSize: 0.05, Sector: "Financial Index", UnderlyingPrice: 19867.25},
		{Symbol: "RELIANCE", LotSize: 250, TickSize: 0.05, Sector: "Oil & Gas", UnderlyingPrice: 2456.80},
		{Symbol: "TCS", LotSize: 125, TickSize: 0.05, Sector: "IT Services", UnderlyingPrice: 3789.45},
	}
}

// NewRegistry creates a registry from the given instruments.
func NewRegistry(instruments []models.Instrument) *Registry {
	r := &Registry{instruments: make(map[string]*models.Instrument, len(instruments))}
	for i := range instruments {
		inst := instruments[i]
		r.instruments[inst.Symbol] = &inst
	}
	return r
}

// Get returns the instrument for a symbol.
func (r *Registry) Get(symbol string) (*models.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instruments[symbol]
	if !ok {
		return nil, errors.Wrapf(errors.ErrSymbolNotFound, "symbol %s", symbol)
	}
	cp := *inst
	return &cp, nil
}

// Symbols returns all registered symbols sorted alphabetically.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.instruments))
	for s := range r.instruments {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// UpdateSpot replaces the underlying price for a symbol.
func (r *Registry) UpdateSpot(symbol string, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instruments[symbol]
	if !ok {
		return errors.Wrapf(errors.ErrSymbolNotFound, "symbol %s", symbol)
	}
	inst.UnderlyingPrice = price
	return nil
}
