// Package date handles the day-granularity dates of a note: strike date, KO
// observation start and maturity.
//
// Sheets exported from different locales spell dates in many ways; the book
// stores them as "2006-01-02" whenever they can be read, verbatim otherwise.
package date

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical date format of the book.
const Layout = "2006-01-02"

// layouts accepted by Parse, tried in order.
var layouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006年1月2日",
	time.RFC3339, // JSON quote services
	"1/2/2006",   // US locale sheets
}

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the Date of year, month and day, normalized like time.Date
// (January 32 is February 1).
func New(year int, month time.Month, day int) Date {
	y, m, d := midnight(year, month, day).Date()
	return Date{y, m, d}
}

// Today returns the current local date.
func Today() Date { return New(time.Now().Date()) }

func midnight(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// DaysUntil returns the number of days from d to x, negative when x is before d.
func (d Date) DaysUntil(x Date) int {
	return int(midnight(x.y, x.m, x.d).Sub(midnight(d.y, d.m, d.d)) / (24 * time.Hour))
}

func (d Date) String() string { return midnight(d.y, d.m, d.d).Format(Layout) }

// Parse reads str in any of the accepted layouts: "2025-7-1", "2025/07/01",
// "2025.7.1", "2025年7月1日", RFC 3339 or the US "7/1/2025".
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return New(t.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", str, Layout)
}

// Normalize returns str in the canonical layout when it is a date, and str
// unchanged otherwise.
func Normalize(str string) string {
	d, err := Parse(str)
	if err != nil {
		return str
	}
	return d.String()
}
