package market

import (
	"testing"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(DefaultInstruments())

	inst, err := r.Get("NIFTY")
	if err != nil {
		t.Fatalf("Get(NIFTY) error: %v", err)
	}
	if inst.LotSize != 50 || inst.UnderlyingPrice != 21347.50 {
		t.Errorf("NIFTY = %+v, want lot 50 spot 21347.50", inst)
	}

	if _, err := r.Get("SENSEX"); !apperrors.Is(err, apperrors.ErrSymbolNotFound) {
		t.Errorf("Get(SENSEX) error = %v, want ErrSymbolNotFound", err)
	}
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := NewRegistry(DefaultInstruments())

	inst, _ := r.Get("NIFTY")
	inst.UnderlyingPrice = 1

	again, _ := r.Get("NIFTY")
	if again.UnderlyingPrice != 21347.50 {
		t.Errorf("mutating the returned instrument leaked into the registry")
	}
}

func TestRegistryUpdateSpot(t *testing.T) {
	r := NewRegistry(DefaultInstruments())

	if err := r.UpdateSpot("NIFTY", 21500); err != nil {
		t.Fatalf("UpdateSpot error: %v", err)
	}
	inst, _ := r.Get("NIFTY")
	if inst.UnderlyingPrice != 21500 {
		t.Errorf("spot = %v, want 21500", inst.UnderlyingPrice)
	}

	if err := r.UpdateSpot("SENSEX", 70000); !apperrors.Is(err, apperrors.ErrSymbolNotFound) {
		t.Errorf("UpdateSpot(SENSEX) error = %v, want ErrSymbolNotFound", err)
	}
}

func TestRegistrySymbolsSorted(t *testing.T) {
	r := NewRegistry(DefaultInstruments())
	symbols := r.Symbols()
	want := []string{"BANKNIFTY", "FINNIFTY", "NIFTY", "RELIANCE", "TCS"}
	if len(symbols) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Fatalf("Symbols() = %v, want %v", symbols, want)
		}
	}
}
