package fcn

import (
	"math"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{100000, "USD", "$100,000.00"},
		{3550, "JPY", "¥3,550"},
		{10416.666, "USD", "$10,416.67"},
		{12, "XXQ", "12.00 XXQ"},
		{math.NaN(), "USD", "-"},
		{1e300, "USD", "-"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(96.5714).String(); got != "96.57%" {
		t.Errorf("String() = %q", got)
	}
	if got := Percent(70).Level(550); got != 385 {
		t.Errorf("Level() = %v, want 385", got)
	}
	if got := NewPerformance(50, 0); got != 100 {
		t.Errorf("NewPerformance() with no entry = %v, want 100", got)
	}
	if got := NewPerformance(55, 100); !got.Equal(55) {
		t.Errorf("NewPerformance() = %v, want 55", got)
	}
}
