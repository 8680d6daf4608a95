package pricing

import (
	"math"
	"testing"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

func TestCallPutReferenceValues(t *testing.T) {
	// Near-ATM NIFTY contract with ~18 days to expiry.
	s, k, tt, r, sigma := 21347.50, 21350.0, 0.05, 0.065, 0.25

	call := Call(s, k, tt, r, sigma)
	put := Put(s, k, tt, r, sigma)

	if math.Abs(call-509.41) > 0.05 {
		t.Errorf("Call = %.4f, want ~509.41", call)
	}
	if math.Abs(put-442.63) > 0.05 {
		t.Errorf("Put = %.4f, want ~442.63", put)
	}

	deltaC := Delta(s, k, tt, r, sigma, models.OptionCall)
	if math.Abs(deltaC-0.5335) > 0.001 {
		t.Errorf("call Delta = %.4f, want ~0.5335", deltaC)
	}
}

func TestExpiredOptionsPayIntrinsic(t *testing.T) {
	tests := []struct {
		name     string
		optType  models.OptionType
		s, k, tt float64
		want     float64
	}{
		{"expired ITM call", models.OptionCall, 21500, 21000, 0, 500},
		{"expired OTM call", models.OptionCall, 21000, 21500, 0, 0},
		{"expired ITM put", models.OptionPut, 21000, 21500, 0, 500},
		{"expired OTM put", models.OptionPut, 21500, 21000, 0, 0},
		{"negative time call", models.OptionCall, 21500, 21000, -0.01, 500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Price(tc.optType, tc.s, tc.k, tc.tt, DefaultRiskFreeRate, DefaultVolatility)
			if got != tc.want {
				t.Errorf("Price = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeltaAtExpiry(t *testing.T) {
	if d := Delta(21500, 21000, 0, 0.065, 0.25, models.OptionCall); d != 1 {
		t.Errorf("ITM call delta at expiry = %v, want 1", d)
	}
	if d := Delta(21000, 21500, 0, 0.065, 0.25, models.OptionCall); d != 0 {
		t.Errorf("OTM call delta at expiry = %v, want 0", d)
	}
	if d := Delta(21000, 21500, 0, 0.065, 0.25, models.OptionPut); d != -1 {
		t.Errorf("ITM put delta at expiry = %v, want -1", d)
	}
	if d := Delta(21500, 21000, 0, 0.065, 0.25, models.OptionPut); d != 0 {
		t.Errorf("OTM put delta at expiry = %v, want 0", d)
	}
}

func TestNormCDF(t *testing.T) {
	if got := NormCDF(0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("NormCDF(0) = %v, want 0.5", got)
	}
	if got := NormCDF(1.96); math.Abs(got-0.975) > 1e-3 {
		t.Errorf("NormCDF(1.96) = %v, want ~0.975", got)
	}
	if got := NormCDF(-6); got > 1e-6 {
		t.Errorf("NormCDF(-6) = %v, want ~0", got)
	}
}
