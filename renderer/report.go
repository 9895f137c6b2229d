package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/date"
)

// Report is the view model of a risk report: every value is preformatted.
type Report struct {
	Title       string
	LastUpdated string
	Today       string
	Totals      []TotalRow
	KICount     int
	KOCount     int
	Positions   []PositionRow
}

// TotalRow is one currency line of the summary.
type TotalRow struct {
	Currency, Nominal, MonthlyCoupon string
}

// PositionRow is one position of the report.
type PositionRow struct {
	ID                             int64
	Product, Issuer, Client       string
	Nominal, Coupon, MonthlyCoupon string
	Maturity, DaysLeft            string
	Laggard, Performance          string
	Status                        fcn.RiskStatus
	Alert                         bool // KI hit or near KI
	Gauge                         string
	Underlyings                   []UnderlyingRow
}

// UnderlyingRow details one underlying of a position.
type UnderlyingRow struct {
	Ticker                        string
	Stale                         bool // no price, valued at entry
	Entry, Current, Performance   string
	KIPrice, KOPrice, StrikePrice string
}

// GaugeWidth is the number of cells of a gauge bar.
const GaugeWidth = 20

// NewReport builds the report of views as of today. Client names are looked up
// in clients.
func NewReport(title, lastUpdated string, today date.Date, clients []fcn.Client, views []fcn.RiskView) *Report {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	r := &Report{Title: title, LastUpdated: lastUpdated, Today: today.String()}
	if r.LastUpdated == "" {
		r.LastUpdated = "-"
	}

	s := fcn.Summarize(views)
	r.KICount, r.KOCount = s.KICount, s.KOCount
	for _, t := range s.Totals {
		r.Totals = append(r.Totals, TotalRow{
			Currency:      t.Currency,
			Nominal:       fcn.FormatMoney(t.Nominal, t.Currency),
			MonthlyCoupon: fcn.FormatMoney(float64(t.MonthlyCoupon), t.Currency),
		})
	}

	for _, v := range views {
		name, ok := names[v.ClientID]
		if !ok {
			name = fcn.UnknownClientName
		}
		row := PositionRow{
			ID:            v.ID,
			Product:       v.ProductName,
			Issuer:        v.Issuer,
			Client:        name,
			Nominal:       fcn.FormatMoney(v.Nominal, v.Currency),
			Coupon:        fmt.Sprintf("%.2f%%", v.CouponRate),
			MonthlyCoupon: fcn.FormatMoney(float64(v.MonthlyCoupon), v.Currency),
			Maturity:      v.MaturityDate,
			DaysLeft:      daysLeft(today, v.MaturityDate),
			Laggard:       v.Laggard.Ticker,
			Performance:   v.Laggard.Performance.String(),
			Status:        v.Status,
			Alert:         v.Status == fcn.KIHit || v.Status == fcn.NearKI,
			Gauge:         gaugeBar(v.Gauge(), GaugeWidth),
		}
		if len(v.Details) == 0 {
			row.Performance = "-"
		}
		for _, d := range v.Details {
			row.Underlyings = append(row.Underlyings, UnderlyingRow{
				Ticker:      d.Ticker,
				Stale:       !d.Resolved,
				Entry:       price(d.EntryPrice),
				Current:     price(d.CurrentPrice),
				Performance: d.Performance.String(),
				KIPrice:     price(d.KIPrice),
				KOPrice:     price(d.KOPrice),
				StrikePrice: price(d.StrikePrice),
			})
		}
		r.Positions = append(r.Positions, row)
	}
	return r
}

// daysLeft describes the time to maturity, "" when the date is unknown.
func daysLeft(today date.Date, maturity string) string {
	m, err := date.Parse(maturity)
	if err != nil {
		return ""
	}
	switch n := today.DaysUntil(m); {
	case n < 0:
		return "已到期"
	case n == 0:
		return "今日到期"
	default:
		return fmt.Sprintf("%d 天", n)
	}
}

func price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// gaugeBar draws g on width cells: the knock-in zone as '░', the knock-out
// zone as '▓' and the laggard as '●'.
func gaugeBar(g fcn.Gauge, width int) string {
	at := func(v float64) int { return int(math.Round(v / 100 * float64(width-1))) }
	ki, ko, cur := at(g.KI), at(g.KO), at(g.Current)
	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == cur:
			sb.WriteRune('●')
		case i <= ki:
			sb.WriteRune('░')
		case i >= ko:
			sb.WriteRune('▓')
		default:
			sb.WriteRune('─')
		}
	}
	return sb.String()
}
