package importer

import (
	"math"
	"strings"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/date"
	"github.com/etnz/fcn/tabular"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults substituted for missing or unreadable values.
const (
	DefaultNominal     = 0.0
	DefaultCoupon      = 0.0
	DefaultKILevel     = 60.0
	DefaultKOLevel     = 100.0
	DefaultStrikeLevel = 100.0
	DefaultEntryPrice  = 100.0
	DefaultCurrency    = "USD"
	UnknownTicker      = "UNKNOWN"
)

// minRowCells is the number of cells below which a row is not a position.
const minRowCells = 3

// Result is the outcome of an import. It replaces the clients and positions
// of a book, it is not merged into them.
type Result struct {
	Clients   []fcn.Client
	Positions []fcn.Position
	Skipped   int // rows ignored for being too short or without a product name
}

// Import parses raw text (CSV or an HTML table) and imports its positions.
func Import(raw string) (Result, error) {
	grid, err := tabular.Parse(raw)
	if err != nil {
		return Result{}, &Error{Reason: "cannot read the table", Err: err}
	}
	h, err := FindHeader(grid)
	if err != nil {
		return Result{}, err
	}
	return ImportRows(grid, h)
}

// ImportRows reads every row below the header as a position.
//
// Each distinct client name met gets a new client, names are never matched to
// clients that already exist elsewhere. It fails only when no row could be
// read, so that an empty sheet never wipes a book.
func ImportRows(grid [][]string, h Header) (Result, error) {
	var res Result
	ids := make(map[string]string) // client name -> id
	for _, row := range grid[min(h.Row+1, len(grid)):] {
		product := h.Cell(row, Product)
		if len(row) < minRowCells || product == "" {
			res.Skipped++
			continue
		}

		name := h.Cell(row, Client)
		if name == "" {
			name = fcn.DefaultClientName
		}
		id, ok := ids[name]
		if !ok {
			id = "c" + uuid.NewString()
			ids[name] = id
			res.Clients = append(res.Clients, fcn.Client{ID: id, Name: name})
		}

		currency := strings.ToUpper(h.Cell(row, Currency))
		if currency == "" {
			currency = DefaultCurrency
		}
		res.Positions = append(res.Positions, fcn.Position{
			ID:                     int64(len(res.Positions) + 1),
			ClientID:               id,
			ProductName:            product,
			Issuer:                 h.Cell(row, Issuer),
			Nominal:                ParseNumber(h.Cell(row, Nominal), DefaultNominal),
			Currency:               currency,
			CouponRate:             ParseNumber(h.Cell(row, Coupon), DefaultCoupon),
			StrikeDate:             date.Normalize(h.Cell(row, StrikeDate)),
			KOObservationStartDate: date.Normalize(h.Cell(row, KOObsDate)),
			MaturityDate:           date.Normalize(h.Cell(row, Maturity)),
			Tenor:                  h.Cell(row, Tenor),
			KILevel:                ParseNumber(h.Cell(row, KI), DefaultKILevel),
			KOLevel:                ParseNumber(h.Cell(row, KO), DefaultKOLevel),
			StrikeLevel:            ParseNumber(h.Cell(row, Strike), DefaultStrikeLevel),
			Underlyings:            ParseUnderlyings(h.Cell(row, Underlyings)),
			Status:                 fcn.StatusActive,
		})
	}
	if len(res.Positions) == 0 {
		err := &Error{Reason: "no position found below the header"}
		if len(grid) > 0 {
			err.Excerpt = strings.Join(grid[0], ",")
		}
		return res, err
	}
	return res, nil
}

// ParseUnderlyings reads a basket cell such as "NVDA:550/AMD:140".
//
// Items are separated by '/', ';', '|' or new lines. Within an item the first
// word is the ticker and the last numeric word, if any, the entry price.
// An empty basket yields a single UNKNOWN placeholder.
func ParseUnderlyings(cell string) []fcn.Underlying {
	var basket []fcn.Underlying
	items := strings.FieldsFunc(cell, func(r rune) bool {
		return r == '/' || r == ';' || r == '|' || r == '\n' || r == '\r'
	})
	for _, item := range items {
		words := strings.FieldsFunc(item, func(r rune) bool {
			return r == ':' || r == ' ' || r == '\t' || r == '　'
		})
		if len(words) == 0 {
			continue
		}
		u := fcn.Underlying{Ticker: strings.ToUpper(words[0]), EntryPrice: DefaultEntryPrice}
		if price, ok := lastNumber(words[1:]); ok {
			u.EntryPrice = price
		}
		basket = append(basket, u)
	}
	if len(basket) == 0 {
		return []fcn.Underlying{{Ticker: UnknownTicker, EntryPrice: DefaultEntryPrice}}
	}
	return basket
}

// numberNoise is removed from a cell before reading it as a number.
var numberNoise = strings.NewReplacer(
	",", "", "%", "", "$", "", "¥", "", "€", "", "£", "", "，", "", "％", "",
	"NT", "", "USD", "", "JPY", "", "HKD", "", "TWD", "", " ", "", "　", "",
)

// ParseNumber reads s as a decimal number ignoring thousands separators,
// percent signs and currency marks; def is returned when s is not a number
// or does not fit a float64.
func ParseNumber(s string, def float64) float64 {
	if f, ok := parseNumber(s); ok {
		return f
	}
	return def
}

func parseNumber(s string) (float64, bool) {
	s = numberNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	return f, !math.IsNaN(f) && !math.IsInf(f, 0)
}

// lastNumber returns the last word of words that reads as a number.
func lastNumber(words []string) (float64, bool) {
	for i := len(words) - 1; i >= 0; i-- {
		if f, ok := parseNumber(words[i]); ok {
			return f, true
		}
	}
	return 0, false
}
