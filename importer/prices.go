package importer

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fcn"
	"github.com/etnz/fcn/tabular"
)

// ParsePrices reads pasted quotes, one "TICKER ... PRICE" per line such as
// "NVDA 800", "TYO:7203 ¥3,500 JPY" or "AMD,135.2". The price is the last
// number of the line; lines without one are ignored.
func ParsePrices(text string) *fcn.Prices {
	prices := fcn.NewPrices()
	for _, line := range strings.Split(text, "\n") {
		words := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '"' || r == '\r' || r == '　'
		})
		if len(words) == 1 {
			words = tabular.SplitLine(words[0])
		}
		if len(words) < 2 {
			continue
		}
		ticker := fcn.NormalizeTicker(words[0])
		price, ok := lastNumber(words[1:])
		if ticker == "" || !ok {
			continue
		}
		prices.Set(ticker, price)
	}
	return prices
}

var (
	tickerSynonyms = []string{"ticker", "symbol", "code", "代號", "代碼", "標的", "股票"}
	priceSynonyms  = []string{"price", "close", "last", "現價", "價格", "收盤", "報價"}
)

// ImportPrices reads a price sheet. Ticker and price columns are found by
// their header; without a recognizable header the first two columns are
// used.
func ImportPrices(grid [][]string) (*fcn.Prices, error) {
	start, tcol, pcol := 0, 0, 1
	for i, row := range grid {
		if i >= HeaderScanRows {
			break
		}
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = strings.ToLower(strings.TrimSpace(c))
		}
		claimed := make([]bool, len(cells))
		t := firstMatch(cells, claimed, tickerSynonyms)
		if t < 0 {
			continue
		}
		claimed[t] = true
		p := firstMatch(cells, claimed, priceSynonyms)
		if p < 0 {
			continue
		}
		start, tcol, pcol = i+1, t, p
		break
	}

	prices := fcn.NewPrices()
	for _, row := range grid[min(start, len(grid)):] {
		if max(tcol, pcol) >= len(row) {
			continue
		}
		ticker := fcn.NormalizeTicker(row[tcol])
		price, ok := parseNumber(row[pcol])
		if ticker == "" || !ok {
			continue
		}
		prices.Set(ticker, price)
	}
	if prices.Len() == 0 {
		err := &Error{Reason: "no price found"}
		if len(grid) > 0 {
			err.Excerpt = strings.Join(grid[0], ",")
		}
		return nil, err
	}
	return prices, nil
}

// PricesFromJSON extracts quotes from a decoded JSON document.
//
// The path must select either an object of ticker to price, or a list whose
// items are [ticker, price] pairs or objects with a ticker ("ticker", "symbol"
// or "code") and a price ("price", "last" or "close").
func PricesFromJSON(doc any, path string) (*fcn.Prices, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	prices := fcn.NewPrices()
	set := func(ticker, price any) {
		t, ok := ticker.(string)
		if !ok {
			return
		}
		p, ok := jsonNumber(price)
		if !ok {
			return
		}
		if t = fcn.NormalizeTicker(t); t != "" {
			prices.Set(t, p)
		}
	}

	switch v := jval.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			set(k, v[k])
		}
	case []any:
		for _, item := range v {
			switch item := item.(type) {
			case []any:
				if len(item) >= 2 {
					set(item[0], item[1])
				}
			case map[string]any:
				set(firstOf(item, "ticker", "symbol", "code"), firstOf(item, "price", "last", "close"))
			}
		}
	default:
		return nil, fmt.Errorf("error evaluating %q: unexpected %T", path, jval)
	}
	if prices.Len() == 0 {
		return nil, fmt.Errorf("error evaluating %q: no price found", path)
	}
	return prices, nil
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

// jsonNumber reads a price from a number or a string, some quote APIs return
// both.
func jsonNumber(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case string:
		return parseNumber(v)
	}
	return 0, false
}
