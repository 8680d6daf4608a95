package market

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: the strike ladder is positive, strictly ascending, on the
// interval grid, and at most 41 entries.
func TestProperty_StrikeLadder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ladder shape holds for any spot", prop.ForAll(
		func(spot float64) bool {
			interval := StrikeInterval(spot)
			strikes := Strikes(spot)

			if len(strikes) == 0 || len(strikes) > 41 {
				return false
			}
			for i, strike := range strikes {
				if strike <= 0 {
					return false
				}
				if i > 0 && strikes[i] <= strikes[i-1] {
					return false
				}
				ratio := strike / interval
				if math.Abs(ratio-math.Round(ratio)) > 1e-9 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(10, 100000),
	))

	properties.TestingRun(t)
}
