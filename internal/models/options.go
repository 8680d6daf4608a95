package models

import "time"

// OptionChain represents a generated option chain.
type OptionChain struct {
	Symbol    string
	SpotPrice float64
	Expiry    time.Time
	Rows      []ChainRow
}

// ChainRow represents a single strike in the option chain.
type ChainRow struct {
	Strike float64
	ATM    bool
	Call   OptionQuote
	Put    OptionQuote
}

// OptionQuote represents derived quote data for a single contract.
// Quotes are recomputed on every refresh and never mutated in place.
type OptionQuote struct {
	Symbol            string
	Strike            float64
	OptionType        OptionType
	TheoreticalPrice  float64
	Delta             float64
	ImpliedVolatility float64 // percent, synthetic smile value
	OpenInterest      int64
	Volume            int64
	ChangePercent     float64
	ITM               bool
}

// LiquidityRating buckets a strike's liquidity by distance from spot.
func (q OptionQuote) LiquidityRating(spot float64) string {
	m := q.Strike/spot - 1
	if m < 0 {
		m = -m
	}
	switch {
	case m < 0.02:
		return "Excellent"
	case m < 0.05:
		return "Good"
	case m < 0.10:
		return "Moderate"
	default:
		return "Low"
	}
}
