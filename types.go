package fcn

import "strings"

// StatusActive is the lifecycle status given to every new position.
const StatusActive = "Active"

// DefaultClientName is the name of the client created when the book is empty,
// and the client label used by imports that have no client column.
const DefaultClientName = "預設投資人"

// Underlying is one stock of a worst-of basket.
//
// EntryPrice is the reference for all barrier computations and never changes
// once the position is created.
type Underlying struct {
	Ticker     string  `json:"ticker"`
	EntryPrice float64 `json:"entryPrice"`
}

// Position is a structured note held by exactly one client.
//
// KOLevel, KILevel and StrikeLevel are percentages of each underlying's own
// entry price, applied uniformly to every underlying of the basket.
type Position struct {
	ID                     int64        `json:"id"`
	ClientID               string       `json:"clientId"`
	ProductName            string       `json:"productName"`
	Issuer                 string       `json:"issuer"`
	Nominal                float64      `json:"nominal"`
	Currency               string       `json:"currency"`
	CouponRate             float64      `json:"couponRate"` // annual, in percent
	StrikeDate             string       `json:"strikeDate"`
	KOObservationStartDate string       `json:"koObservationStartDate"`
	MaturityDate           string       `json:"maturityDate"`
	Tenor                  string       `json:"tenor"` // display only
	KOLevel                float64      `json:"koLevel"`
	KILevel                float64      `json:"kiLevel"`
	StrikeLevel            float64      `json:"strikeLevel"`
	Underlyings            []Underlying `json:"underlyings"`
	Status                 string       `json:"status"`
}

// Tickers returns the basket tickers joined with "/", the way products are
// named by default.
func (p Position) Tickers() string {
	tickers := make([]string, 0, len(p.Underlyings))
	for _, u := range p.Underlyings {
		tickers = append(tickers, u.Ticker)
	}
	return strings.Join(tickers, "/")
}

// clone returns a deep copy of p, the underlyings slice is not shared.
func (p Position) clone() Position {
	p.Underlyings = append([]Underlying(nil), p.Underlyings...)
	return p
}

// Client owns zero or more positions.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
