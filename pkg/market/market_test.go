package market

import (
	"testing"

	"github.com/Zane-/cryptobot/pkg/types"
)

func TestRoundDownNeverExceedsInput(t *testing.T) {
	cases := []struct {
		value     float64
		precision int32
		want      float64
	}{
		{50.0, 2, 50.0},
		{50.009, 2, 50.0},
		{0.19999, 2, 0.19},
		{123.456789, 4, 123.4567},
		{7.9, 0, 7},
		{0.0001, 2, 0},
	}
	for _, c := range cases {
		got := RoundDown(c.value, c.precision)
		if got != c.want {
			t.Errorf("RoundDown(%v, %d) = %v, want %v", c.value, c.precision, got, c.want)
		}
		if got > c.value {
			t.Errorf("RoundDown(%v, %d) = %v exceeds input", c.value, c.precision, got)
		}
	}
}

func TestRoundUpNeverUndershootsInput(t *testing.T) {
	cases := []struct {
		value     float64
		precision int32
		want      float64
	}{
		{0.2, 2, 0.2},
		{0.191, 2, 0.2},
		{0.0001, 2, 0.01},
		{7.01, 0, 8},
		{50.0, 2, 50.0},
	}
	for _, c := range cases {
		got := RoundUp(c.value, c.precision)
		if got != c.want {
			t.Errorf("RoundUp(%v, %d) = %v, want %v", c.value, c.precision, got, c.want)
		}
		if got < c.value {
			t.Errorf("RoundUp(%v, %d) = %v undershoots input", c.value, c.precision, got)
		}
	}
}

func TestPrecisionFromStep(t *testing.T) {
	cases := []struct {
		step string
		want int32
	}{
		{"0.00100000", 3},
		{"1.00000000", 0},
		{"0.00000001", 8},
		{"0.10000000", 1},
		{"10.00000000", 0},
		{"0.01", 2},
	}
	for _, c := range cases {
		if got := PrecisionFromStep(c.step); got != c.want {
			t.Errorf("PrecisionFromStep(%q) = %d, want %d", c.step, got, c.want)
		}
	}
}

func TestFormatQtyRoundsDownToPrecision(t *testing.T) {
	m := New(types.ExchangeBinance, types.Pair{Base: "XLM", Quote: "ETH"})
	m.AmountPrecision = 2

	if got := m.FormatQty(50.009); got != "50.00" {
		t.Errorf("FormatQty(50.009) = %q, want %q", got, "50.00")
	}
	if got := m.FormatQty(0.2); got != "0.20" {
		t.Errorf("FormatQty(0.2) = %q, want %q", got, "0.20")
	}

	m.AmountPrecision = 0
	if got := m.FormatQty(7.9); got != "7" {
		t.Errorf("FormatQty(7.9) = %q, want %q", got, "7")
	}
}

func TestFormatPrice(t *testing.T) {
	m := New(types.ExchangeBinance, types.Pair{Base: "XLM", Quote: "ETH"})
	m.PricePrecision = 6

	if got := m.FormatPrice(0.00020009); got != "0.000200" {
		t.Errorf("FormatPrice = %q, want %q", got, "0.000200")
	}
}
