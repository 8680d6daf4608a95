package market

import (
	"math"
	"math/rand"
	"time"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/pricing"
)

// strikeSpan is the number of strike intervals generated on each side of spot.
const strikeSpan = 20

// StrikeInterval returns the exchange-style strike spacing for a spot price.
func StrikeInterval(spot float64) float64 {
	switch {
	case spot < 500:
		return 5
	case spot < 1000:
		return 10
	case spot < 5000:
		return 25
	case spot < 10000:
		return 50
	default:
		return 100
	}
}

// Strikes generates the strike ladder around a spot price: up to 41 values
// from spot-20*interval to spot+20*interval, rounded to the interval,
// filtered to positive, ascending and unique.
func Strikes(spot float64) []float64 {
	interval := StrikeInterval(spot)
	strikes := make([]float64, 0, 2*strikeSpan+1)
	var last float64
	for i := -strikeSpan; i <= strikeSpan; i++ {
		strike := math.Round((spot+float64(i)*interval)/interval) * interval
		if strike <= 0 || strike == last {
			continue
		}
		strikes = append(strikes, strike)
		last = strike
	}
	return strikes
}

// Generator derives synthetic option chains. All randomness flows through
// the injected source so chains are reproducible under a fixed seed.
type Generator struct {
	RiskFreeRate float64
	Volatility   float64
	rng          *rand.Rand
}

// NewGenerator creates a generator with the given rate and random source.
func NewGenerator(riskFreeRate float64, rng *rand.Rand) *Generator {
	if riskFreeRate == 0 {
		riskFreeRate = pricing.DefaultRiskFreeRate
	}
	return &Generator{
		RiskFreeRate: riskFreeRate,
		Volatility:   pricing.DefaultVolatility,
		rng:          rng,
	}
}

// OpenInterest produces a plausible open-interest figure for a strike.
// ATM strikes carry the most interest; far OTM strikes thin out.
func (g *Generator) OpenInterest(strike, spot float64, optType models.OptionType) int64 {
	moneyness := strike / spot
	base := 10000.0

	dist := math.Abs(moneyness - 1)
	if dist < 0.02 {
		base *= 5
	} else if dist < 0.05 {
		base *= 3
	}

	if optType == models.OptionCall {
		if moneyness > 1.05 {
			base *= 0.7
		}
	} else {
		if moneyness < 0.95 {
			base *= 0.7
		}
	}

	return int64(math.Floor(base * (0.5 + g.rng.Float64())))
}

// Volume derives traded volume as a 10-40% fraction of open interest.
func (g *Generator) Volume(oi int64) int64 {
	return int64(math.Floor(float64(oi) * (0.1 + g.rng.Float64()*0.3)))
}

// changePercent produces a day-change figure in the range (-10%, +10%).
func (g *Generator) changePercent() float64 {
	return (g.rng.Float64() - 0.5) * 20
}

// TimeToExpiry converts an expiry date into years from now.
func TimeToExpiry(expiry, now time.Time) float64 {
	return expiry.Sub(now).Hours() / 24 / 365
}

// Quote derives a single contract quote from the instrument and expiry.
func (g *Generator) Quote(inst *models.Instrument, strike float64, optType models.OptionType, t float64) models.OptionQuote {
	spot := inst.UnderlyingPrice
	oi := g.OpenInterest(strike, spot, optType)

	itm := strike < spot
	if optType == models.OptionPut {
		itm = strike > spot
	}

	return models.OptionQuote{
		Symbol:            inst.Symbol,
		Strike:            strike,
		OptionType:        optType,
		TheoreticalPrice:  pricing.Price(optType, spot, strike, t, g.RiskFreeRate, g.Volatility),
		Delta:             pricing.Delta(spot, strike, t, g.RiskFreeRate, g.Volatility, optType),
		ImpliedVolatility: pricing.SmileIV(strike, spot, t, g.rng),
		OpenInterest:      oi,
		Volume:            g.Volume(oi),
		ChangePercent:     g.changePercent(),
		ITM:               itm,
	}
}

// Chain generates the full option chain for an instrument and expiry.
// Every call is a fresh derivation; nothing is cached or mutated.
func (g *Generator) Chain(inst *models.Instrument, expiry, now time.Time) *models.OptionChain {
	spot := inst.UnderlyingPrice
	t := TimeToExpiry(expiry, now)
	interval := StrikeInterval(spot)

	strikes := Strikes(spot)
	rows := make([]models.ChainRow, 0, len(strikes))
	for _, strike := range strikes {
		rows = append(rows, models.ChainRow{
			Strike: strike,
			ATM:    math.Abs(strike-spot) < interval,
			Call:   g.Quote(inst, strike, models.OptionCall, t),
			Put:    g.Quote(inst, strike, models.OptionPut, t),
		})
	}

	return &models.OptionChain{
		Symbol:    inst.Symbol,
		SpotPrice: spot,
		Expiry:    expiry,
		Rows:      rows,
	}
}

// DriftSpot applies one refresh tick of random walk to a spot price,
// bounded to +/-0.1% per tick.
func (g *Generator) DriftSpot(spot float64) float64 {
	return spot + (g.rng.Float64()-0.5)*spot*0.002
}
