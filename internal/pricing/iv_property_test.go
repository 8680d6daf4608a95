package pricing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: IV stays within the smile envelope: floored at 10%, capped
// by base + both smile shifts + term shift + max jitter.
func TestProperty_SmileIVBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	rng := rand.New(rand.NewSource(42))

	properties.Property("10% <= IV <= 35%", prop.ForAll(
		func(spot, strikeRatio, tt float64) bool {
			iv := SmileIV(spot*strikeRatio, spot, tt, rng)
			return iv >= 10 && iv <= 35
		},
		gen.Float64Range(100, 50000),
		gen.Float64Range(0.7, 1.3),
		gen.Float64Range(0.001, 1),
	))

	properties.TestingRun(t)
}
