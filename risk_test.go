package fcn

import (
	"math"
	"testing"
)

// techGiants is the sample note of the default book.
func techGiants() Position {
	return Position{
		ID:          1,
		ClientID:    "c1",
		ProductName: "FCN Tech Giants",
		Issuer:      "GS",
		Nominal:     100000,
		Currency:    "USD",
		CouponRate:  12.5,
		KOLevel:     105,
		KILevel:     70,
		StrikeLevel: 100,
		Underlyings: []Underlying{{"NVDA", 550}, {"AMD", 140}},
		Status:      StatusActive,
	}
}

func pricesOf(kv ...any) *Prices {
	p := NewPrices()
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i].(string), kv[i+1].(float64))
	}
	return p
}

func TestClassifyTechGiants(t *testing.T) {
	v := Classify(techGiants(), pricesOf("NVDA", 610.50, "AMD", 135.20))

	if len(v.Details) != 2 {
		t.Fatalf("got %d details, want 2", len(v.Details))
	}
	if got := v.Details[0].Performance; !got.Equal(Percent(610.5 / 550 * 100)) {
		t.Errorf("NVDA performance = %v", got)
	}
	if got := v.Details[1].Performance; math.Abs(float64(got)-96.571) > 0.001 {
		t.Errorf("AMD performance = %v, want ~96.57%%", got)
	}
	if v.Laggard.Ticker != "AMD" {
		t.Errorf("laggard = %q, want AMD", v.Laggard.Ticker)
	}
	if v.Status != Normal {
		t.Errorf("status = %q, want %q", v.Status, Normal)
	}
	if v.MonthlyCoupon != 10417 {
		t.Errorf("monthly coupon = %d, want 10417", v.MonthlyCoupon)
	}
	amd := v.Details[1]
	if amd.KIPrice != 98 || amd.KOPrice != 147 || amd.StrikePrice != 140 {
		t.Errorf("AMD barriers = ki %v ko %v strike %v, want 98 147 140", amd.KIPrice, amd.KOPrice, amd.StrikePrice)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name    string
		price   float64 // current price of a single underlying entered at 100
		ki, ko  float64
		want    RiskStatus
		comment string
	}{
		{"ki hit below", 50, 70, 105, KIHit, ""},
		{"ki hit on barrier", 70, 70, 105, KIHit, "p <= ki"},
		{"near ki", 72, 70, 105, NearKI, ""},
		{"near ki upper bound", 75, 70, 105, NearKI, "p <= ki+5"},
		{"normal", 96, 70, 105, Normal, ""},
		{"ko on level", 105, 70, 105, KOReady, "p >= ko"},
		{"ko above", 130, 70, 105, KOReady, ""},
		{"ki wins over ko", 60, 70, 50, KIHit, "pathological levels"},
		{"near ki wins over ko", 73, 70, 50, NearKI, "pathological levels"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := Position{KILevel: tt.ki, KOLevel: tt.ko, StrikeLevel: 100, Underlyings: []Underlying{{"X", 100}}}
			v := Classify(pos, pricesOf("X", tt.price))
			if v.Status != tt.want {
				t.Errorf("status = %q, want %q %s", v.Status, tt.want, tt.comment)
			}
		})
	}
}

func TestClassifyLaggard(t *testing.T) {
	pos := Position{
		KILevel: 60, KOLevel: 100,
		Underlyings: []Underlying{{"A", 100}, {"B", 200}, {"C", 50}, {"D", 10}},
	}
	// B and C both at 80%: the first listed wins, D is unknown hence flat.
	v := Classify(pos, pricesOf("A", 90.0, "B", 160.0, "C", 40.0))

	if v.Laggard.Ticker != "B" {
		t.Errorf("laggard = %q, want B", v.Laggard.Ticker)
	}
	minPerf := v.Details[0].Performance
	for _, d := range v.Details {
		minPerf = min(minPerf, d.Performance)
	}
	if v.Laggard.Performance != minPerf {
		t.Errorf("laggard performance = %v, want min %v", v.Laggard.Performance, minPerf)
	}
	if d := v.Details[3]; d.Resolved || d.CurrentPrice != 10 || d.Performance != 100 {
		t.Errorf("unknown ticker must be flat, got %+v", d)
	}
}

func TestClassifyNeverFails(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
	}{
		{"empty basket", Position{KILevel: 70, KOLevel: 100}},
		{"zero entry price", Position{KILevel: 70, KOLevel: 100, Underlyings: []Underlying{{"X", 0}}}},
		{"negative entry price", Position{KILevel: 70, KOLevel: 100, Underlyings: []Underlying{{"X", -3}}}},
		{"nan nominal", Position{Nominal: math.NaN(), Underlyings: []Underlying{{"X", 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.pos, pricesOf("X", 5.0))
			switch v.Status {
			case KIHit, NearKI, KOReady, Normal:
			default:
				t.Errorf("unexpected status %q", v.Status)
			}
			if math.IsNaN(float64(v.Laggard.Performance)) {
				t.Errorf("laggard performance is NaN")
			}
		})
	}

	v := Classify(Position{KILevel: 70, KOLevel: 100}, nil)
	if v.Laggard.Ticker != "N/A" || v.Status != Normal {
		t.Errorf("empty basket = %q %q, want N/A Normal", v.Laggard.Ticker, v.Status)
	}
}

func TestClassifyDoesNotShareInputs(t *testing.T) {
	pos := techGiants()
	v := Classify(pos, nil)
	v.Underlyings[0].Ticker = "CHANGED"
	if pos.Underlyings[0].Ticker != "NVDA" {
		t.Errorf("Classify shares the underlyings slice with its input")
	}
}

func TestMonthlyCoupon(t *testing.T) {
	tests := []struct {
		nominal, rate float64
		want          int64
	}{
		{100000, 12.5, 10417},
		{10000, 10, 83},
		{0, 12, 0},
		{1200, 0.5, 1}, // exactly 0.5: half away from zero
		{-1200, 0.5, -1},
		{3000000, 9.6, 24000},
		{1e300, 100, 0},
		{-1e300, 100, 0},
		{math.Inf(1), 10, 0},
	}
	for _, tt := range tests {
		if got := MonthlyCoupon(tt.nominal, tt.rate); got != tt.want {
			t.Errorf("MonthlyCoupon(%v, %v) = %d, want %d", tt.nominal, tt.rate, got, tt.want)
		}
	}
}

func TestGauge(t *testing.T) {
	v := Classify(Position{KILevel: 70, KOLevel: 105, Underlyings: []Underlying{{"X", 100}}}, pricesOf("X", 200.0))
	g := v.Gauge()
	// scale is 55..115
	if g.Current != 100 {
		t.Errorf("current = %v, want clamped 100", g.Current)
	}
	if got, want := g.KI, 25.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("ki = %v, want %v", got, want)
	}
	if got, want := g.KO, 250.0/3; math.Abs(got-want) > 1e-9 {
		t.Errorf("ko = %v, want %v", got, want)
	}
}
