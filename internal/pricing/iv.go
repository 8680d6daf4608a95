package pricing

import "math/rand"

// SmileIV returns a synthetic implied volatility in percent for a strike.
//
// This is not a solver inverting a market price; no market feed exists in
// the simulation. It is a heuristic smile: 20% base, widened for OTM
// strikes, steepened near expiry, with bounded jitter from the supplied
// random source. Floored at 10%.
func SmileIV(strike, spot, timeToExpiry float64, rng *rand.Rand) float64 {
	moneyness := strike / spot
	vol := 0.20

	// Volatility smile: OTM strikes trade at a premium.
	if moneyness < 0.95 || moneyness > 1.05 {
		vol += 0.05
	}
	if moneyness < 0.90 || moneyness > 1.10 {
		vol += 0.05
	}

	// Term structure: short-dated options carry more vol.
	if timeToExpiry < 0.08 {
		vol += 0.03
	}

	if rng != nil {
		vol += (rng.Float64() - 0.5) * 0.04
	}

	if vol*100 < 10 {
		return 10
	}
	return vol * 100
}
