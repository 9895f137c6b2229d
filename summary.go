package fcn

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyTotal sums the positions held in one currency.
type CurrencyTotal struct {
	Currency      string
	Nominal       float64
	MonthlyCoupon int64
}

// Summary aggregates classified positions.
type Summary struct {
	Totals  []CurrencyTotal // sorted by currency code
	KICount int             // positions hit or near their knock-in barrier
	KOCount int             // positions ready to knock out
}

// Summarize aggregates views per currency and counts the barrier alerts.
func Summarize(views []RiskView) Summary {
	var s Summary
	nominals := make(map[string]decimal.Decimal)
	monthly := make(map[string]int64)
	for _, v := range views {
		cur := strings.ToUpper(v.Currency)
		if finite(v.Nominal) {
			nominals[cur] = nominals[cur].Add(decimal.NewFromFloat(v.Nominal))
		} else if _, ok := nominals[cur]; !ok {
			nominals[cur] = decimal.Zero
		}
		monthly[cur] += v.MonthlyCoupon

		switch v.Status {
		case KIHit, NearKI:
			s.KICount++
		case KOReady:
			s.KOCount++
		}
	}
	for cur, n := range nominals {
		s.Totals = append(s.Totals, CurrencyTotal{Currency: cur, Nominal: n.InexactFloat64(), MonthlyCoupon: monthly[cur]})
	}
	slices.SortFunc(s.Totals, func(a, b CurrencyTotal) int { return strings.Compare(a.Currency, b.Currency) })
	return s
}
