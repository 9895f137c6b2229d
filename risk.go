package fcn

// RiskStatus is the barrier state of a position, derived from its laggard.
type RiskStatus string

const (
	KIHit   RiskStatus = "KI HIT"   // the laggard is at or below the knock-in barrier.
	NearKI  RiskStatus = "Near KI"  // the laggard is within NearKIBand points above the knock-in barrier.
	KOReady RiskStatus = "KO Ready" // the laggard is at or above the knock-out level: the note autocalls.
	Normal  RiskStatus = "Normal"   // observing.
)

// NearKIBand is the width, in performance points, of the early warning band
// above the knock-in barrier.
const NearKIBand = 5

// UnderlyingRisk is the projection of one underlying against the price table.
type UnderlyingRisk struct {
	Underlying
	CurrentPrice float64
	Resolved     bool    // false when the ticker has no price and CurrentPrice is the entry price.
	Performance  Percent // CurrentPrice / EntryPrice * 100
	KIPrice      float64
	KOPrice      float64
	StrikePrice  float64
}

// RiskView is the derived, never persisted, risk projection of a position.
type RiskView struct {
	Position
	Details       []UnderlyingRisk
	Laggard       UnderlyingRisk
	Status        RiskStatus
	MonthlyCoupon int64
}

// noLaggard stands for the laggard of an empty basket.
var noLaggard = UnderlyingRisk{Underlying: Underlying{Ticker: "N/A"}}

// Classify projects pos against prices.
//
// Each underlying is valued at its resolved price, or at its entry price when
// the ticker is unknown (flat rather than an error). The laggard is the
// underlying with the strictly smallest performance, the first one on ties.
// The status is evaluated against the laggard performance p in this order:
// p <= KI is KIHit, p <= KI+5 is NearKI, p >= KO is KOReady, else Normal.
//
// Classify never fails and never modifies its inputs.
func Classify(pos Position, prices *Prices) RiskView {
	v := RiskView{
		Position:      pos.clone(),
		Details:       make([]UnderlyingRisk, 0, len(pos.Underlyings)),
		Laggard:       noLaggard,
		Status:        Normal,
		MonthlyCoupon: MonthlyCoupon(pos.Nominal, pos.CouponRate),
	}

	for i, u := range pos.Underlyings {
		d := UnderlyingRisk{
			Underlying:  u,
			KIPrice:     Percent(pos.KILevel).Level(u.EntryPrice),
			KOPrice:     Percent(pos.KOLevel).Level(u.EntryPrice),
			StrikePrice: Percent(pos.StrikeLevel).Level(u.EntryPrice),
		}
		d.CurrentPrice, d.Resolved = prices.Resolve(u.Ticker)
		if !d.Resolved || !finite(d.CurrentPrice) {
			d.CurrentPrice, d.Resolved = u.EntryPrice, false
		}
		d.Performance = NewPerformance(d.CurrentPrice, u.EntryPrice)
		v.Details = append(v.Details, d)

		if i == 0 || d.Performance < v.Laggard.Performance {
			v.Laggard = d
		}
	}
	if len(v.Details) == 0 {
		// nothing to observe.
		return v
	}
	v.Status = status(float64(v.Laggard.Performance), pos.KILevel, pos.KOLevel)
	return v
}

// ClassifyAll classifies every position, in order.
func ClassifyAll(positions []Position, prices *Prices) []RiskView {
	views := make([]RiskView, 0, len(positions))
	for _, pos := range positions {
		views = append(views, Classify(pos, prices))
	}
	return views
}

// status applies the barrier rules in priority order: breach risk first,
// then redemption.
func status(p, ki, ko float64) RiskStatus {
	switch {
	case p <= ki:
		return KIHit
	case p <= ki+NearKIBand:
		return NearKI
	case p >= ko:
		return KOReady
	default:
		return Normal
	}
}

// Gauge locates the laggard, the KI and the KO levels on a 0..100 scale
// spanning from 15 points below KI to 10 points above KO.
type Gauge struct {
	Current, KI, KO float64
}

// Gauge returns the positions of the laggard performance and of both
// barriers on the gauge scale, clamped to 0..100.
func (v RiskView) Gauge() Gauge {
	low := v.KILevel - 15
	span := v.KOLevel + 10 - low
	pos := func(val float64) float64 {
		if span <= 0 || !finite(val) {
			return 0
		}
		return min(max((val-low)/span*100, 0), 100)
	}
	return Gauge{
		Current: pos(float64(v.Laggard.Performance)),
		KI:      pos(v.KILevel),
		KO:      pos(v.KOLevel),
	}
}
