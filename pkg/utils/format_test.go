package utils

import "testing"

func TestFormatIndianCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{100000, "₹1,00,000.00"},
		{1234567.89, "₹12,34,567.89"},
		{10000000, "₹1,00,00,000.00"},
		{-45250.50, "-₹45,250.50"},
	}
	for _, tc := range tests {
		if got := FormatIndianCurrency(tc.amount); got != tc.want {
			t.Errorf("FormatIndianCurrency(%v) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(2000); got != "+₹2,000.00" {
		t.Errorf("FormatPnL(2000) = %s", got)
	}
	if got := FormatPnL(-2000); got != "-₹2,000.00" {
		t.Errorf("FormatPnL(-2000) = %s", got)
	}
	if got := FormatPnL(0); got != "₹0.00" {
		t.Errorf("FormatPnL(0) = %s", got)
	}
}

func TestFormatCompact(t *testing.T) {
	if got := FormatCompact(250000); got != "2.50 L" {
		t.Errorf("FormatCompact(250000) = %s", got)
	}
	if got := FormatCompact(25000000); got != "2.50 Cr" {
		t.Errorf("FormatCompact(25000000) = %s", got)
	}
	if got := FormatCompact(2500); got != "₹2,500.00" {
		t.Errorf("FormatCompact(2500) = %s", got)
	}
}

func TestFormatStrike(t *testing.T) {
	if got := FormatStrike(21400); got != "21400" {
		t.Errorf("FormatStrike(21400) = %s", got)
	}
	if got := FormatStrike(2456.25); got != "2456.25" {
		t.Errorf("FormatStrike(2456.25) = %s", got)
	}
}
