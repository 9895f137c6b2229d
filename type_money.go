package fcn

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney formats amount in currency the way statements do ("$100,000.00",
// "¥3,550"). Unknown currency codes are formatted with two decimals followed
// by the code.
func FormatMoney(amount float64, currency string) string {
	if !finite(amount) {
		return "-"
	}
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return strings.TrimSpace(fmt.Sprintf("%.2f %s", amount, currency))
	}
	minor, ok := units(decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)))
	if !ok {
		return "-"
	}
	return cur.Formatter().Format(minor)
}

// MonthlyCoupon returns the coupon paid each month for nominal at an annual
// couponRate (in percent), rounded to the unit, half away from zero. It is 0
// when an input is not finite or the result does not fit an int64.
//
// The computation is exact: 100000 at 12.5% is 10416.666.. and rounds to 10417.
func MonthlyCoupon(nominal, couponRate float64) int64 {
	if !finite(nominal) || !finite(couponRate) {
		return 0
	}
	yearly := decimal.NewFromFloat(nominal).Mul(decimal.NewFromFloat(couponRate))
	monthly, ok := units(yearly.Div(decimal.NewFromInt(100 * 12)))
	if !ok {
		return 0
	}
	return monthly
}

var (
	minUnits = decimal.NewFromInt(math.MinInt64)
	maxUnits = decimal.NewFromInt(math.MaxInt64)
)

// units rounds d to the unit, false when the result does not fit an int64.
func units(d decimal.Decimal) (int64, bool) {
	d = d.Round(0)
	if d.LessThan(minUnits) || d.GreaterThan(maxUnits) {
		return 0, false
	}
	return d.IntPart(), true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
