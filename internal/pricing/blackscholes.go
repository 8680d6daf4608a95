// Package pricing implements Black-Scholes option valuation and the
// synthetic volatility surface used by the chain generator.
package pricing

import (
	"math"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// DefaultRiskFreeRate is the RBI repo rate used when none is configured.
const DefaultRiskFreeRate = 0.065

// DefaultVolatility is the flat volatility used to price chain rows.
const DefaultVolatility = 0.25

// Call returns the Black-Scholes fair value of a European call.
// At T <= 0 the closed form degenerates (d1 divides by sigma*sqrt(T)),
// so the intrinsic payoff is returned instead.
func Call(s, k, t, r, sigma float64) float64 {
	if t <= 0 {
		return math.Max(s-k, 0)
	}
	d1, d2 := dValues(s, k, t, r, sigma)
	return s*NormCDF(d1) - k*math.Exp(-r*t)*NormCDF(d2)
}

// Put returns the Black-Scholes fair value of a European put.
func Put(s, k, t, r, sigma float64) float64 {
	if t <= 0 {
		return math.Max(k-s, 0)
	}
	d1, d2 := dValues(s, k, t, r, sigma)
	return k*math.Exp(-r*t)*NormCDF(-d2) - s*NormCDF(-d1)
}

// Price dispatches on option type.
func Price(optType models.OptionType, s, k, t, r, sigma float64) float64 {
	if optType == models.OptionCall {
		return Call(s, k, t, r, sigma)
	}
	return Put(s, k, t, r, sigma)
}

// Delta returns Phi(d1) for calls and Phi(d1)-1 for puts.
func Delta(s, k, t, r, sigma float64, optType models.OptionType) float64 {
	if t <= 0 {
		// Step-function limit at expiry.
		if optType == models.OptionCall {
			if s > k {
				return 1
			}
			return 0
		}
		if s < k {
			return -1
		}
		return 0
	}
	d1, _ := dValues(s, k, t, r, sigma)
	if optType == models.OptionCall {
		return NormCDF(d1)
	}
	return NormCDF(d1) - 1
}

func dValues(s, k, t, r, sigma float64) (d1, d2 float64) {
	sqrtT := math.Sqrt(t)
	d1 = (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 = d1 - sigma*sqrtT
	return d1, d2
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * (1 + erf(x/math.Sqrt2))
}

// erf is the Abramowitz-Stegun 5-term rational approximation (7.1.26).
// Maximum absolute error is about 1.5e-7, which is well inside the
// tolerance of every consumer here.
func erf(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return sign * y
}
