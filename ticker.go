package fcn

import "strings"

// fullWidthOffset is the distance between a full-width ASCII variant
// (U+FF01..U+FF5E) and its ASCII counterpart.
const fullWidthOffset = 0xFEE0

// Tokyo listing notations stripped by NormalizeTicker.
var (
	tickerPrefixes = []string{"TYO:", "JP:"}
	tickerSuffixes = []string{".T"}
)

// toHalfWidth folds full-width ASCII variants and the ideographic space into
// plain ASCII.
func toHalfWidth(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0xFF01 && r <= 0xFF5E:
			return r - fullWidthOffset
		case r == 0x3000:
			return ' '
		}
		return r
	}, s)
}

// NormalizeTicker returns the canonical form of a ticker used to compare
// tickers coming from different sources.
//
// The canonical form is only meant for equality, it is never displayed:
// full-width characters are folded, the ticker is upper cased, the Tokyo
// notations "TYO:", "JP:" and ".T" are removed and surrounding spaces trimmed.
// So "ＴＹＯ:7203", "7203.T" and "7203" all normalize to "7203".
//
// Stripping runs until nothing changes, so NormalizeTicker is idempotent even
// for stacked notations like "JP:TYO:7203".
func NormalizeTicker(ticker string) string {
	n := strings.TrimSpace(strings.ToUpper(toHalfWidth(ticker)))
	for {
		prev := n
		for _, p := range tickerPrefixes {
			n = strings.TrimSpace(strings.TrimPrefix(n, p))
		}
		for _, s := range tickerSuffixes {
			n = strings.TrimSpace(strings.TrimSuffix(n, s))
		}
		if n == prev {
			return n
		}
	}
}
