package trading

import (
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// Margin rates for short option positions. These approximate the
// SPAN+exposure regime rather than reproduce it.
const (
	SpanRate     = 0.15
	ExposureRate = 0.05
)

// EstimateMargin computes the capital required for a prospective trade.
// Long options pay the full premium. Short options post span plus
// exposure margin net of premium received, floored at the exposure
// margin alone.
func EstimateMargin(action models.OrderSide, optType models.OptionType, strike, premiumPrice, spot float64, quantity, lotSize int) models.MarginEstimate {
	shares := float64(quantity * lotSize)
	premium := premiumPrice * shares
	notional := spot * shares

	estimate := models.MarginEstimate{
		Premium:   premium,
		Breakeven: Breakeven(optType, strike, premiumPrice),
	}

	if action == models.OrderSideBuy {
		estimate.Required = premium
		return estimate
	}

	estimate.SpanMargin = SpanRate * notional
	estimate.ExposureMargin = ExposureRate * notional
	required := estimate.SpanMargin + estimate.ExposureMargin - premium
	if floor := ExposureRate * notional; required < floor {
		required = floor
	}
	estimate.Required = required
	return estimate
}

// Breakeven returns the underlying level at which the option position
// breaks even at expiry: strike plus premium for calls, strike minus
// premium for puts. The figure is the same for both sides of the trade.
func Breakeven(optType models.OptionType, strike, premiumPrice float64) float64 {
	if optType == models.OptionCall {
		return strike + premiumPrice
	}
	return strike - premiumPrice
}
