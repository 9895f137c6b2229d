package share

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/etnz/fcn"
)

// Version is the format version of Compact.
const Version = 1

// Compact is the minified form of a Payload.
type Compact struct {
	V int         `json:"v"`
	N string      `json:"n"` // client name
	T string      `json:"t"` // last updated
	P []Tuple     `json:"p"`
	M *fcn.Prices `json:"m"`
}

// Tuple is a position encoded as a JSON array, in this order: product, issuer,
// nominal, currency, coupon, ko, ki, strike, strike date, KO observation
// date, maturity, tenor, [[ticker, price]...] and status. Status is omitted
// when Active.
type Tuple fcn.Position

const (
	tupleLen    = 13 // without status
	tupleMaxLen = 14
)

// Minify returns the compact form of p.
func Minify(p Payload) Compact {
	c := Compact{V: Version, N: p.ClientName, T: p.LastUpdated, P: make([]Tuple, 0, len(p.Positions)), M: p.Prices}
	if c.M == nil {
		c.M = fcn.NewPrices()
	}
	for _, pos := range p.Positions {
		c.P = append(c.P, Tuple(pos))
	}
	return c
}

// Expand returns the payload of c. Positions get the guest client id and
// their index as id.
func Expand(c Compact) Payload {
	p := Payload{ClientName: c.N, LastUpdated: c.T, Prices: c.M, Positions: make([]fcn.Position, 0, len(c.P))}
	if p.Prices == nil {
		p.Prices = fcn.NewPrices()
	}
	for i, t := range c.P {
		pos := fcn.Position(t)
		pos.ID = int64(i)
		pos.ClientID = GuestClientID
		p.Positions = append(p.Positions, pos)
	}
	return p
}

// Unminify decodes a JSON document holding either a Compact (it has a "v"
// member) or an expanded Payload, which is returned as is.
func Unminify(data []byte) (Payload, error) {
	var probe struct {
		V *int `json:"v"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if probe.V == nil {
		var p Payload
		if err := json.Unmarshal(data, &p); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return p, nil
	}
	if *probe.V != Version {
		return Payload{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, *probe.V)
	}
	var c Compact
	if err := json.Unmarshal(data, &c); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Expand(c), nil
}

func (t Tuple) MarshalJSON() ([]byte, error) {
	basket := make([][2]any, len(t.Underlyings))
	for i, u := range t.Underlyings {
		basket[i] = [2]any{u.Ticker, u.EntryPrice}
	}
	tuple := []any{
		t.ProductName, t.Issuer, t.Nominal, t.Currency, t.CouponRate,
		t.KOLevel, t.KILevel, t.StrikeLevel,
		t.StrikeDate, t.KOObservationStartDate, t.MaturityDate, t.Tenor,
		basket,
	}
	if t.Status != fcn.StatusActive {
		tuple = append(tuple, t.Status)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tuple); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (t *Tuple) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < tupleLen || len(raw) > tupleMaxLen {
		return fmt.Errorf("position tuple has %d elements, want %d or %d", len(raw), tupleLen, tupleMaxLen)
	}
	var basket [][]json.RawMessage
	*t = Tuple{Status: fcn.StatusActive}
	fields := []any{
		&t.ProductName, &t.Issuer, &t.Nominal, &t.Currency, &t.CouponRate,
		&t.KOLevel, &t.KILevel, &t.StrikeLevel,
		&t.StrikeDate, &t.KOObservationStartDate, &t.MaturityDate, &t.Tenor,
		&basket, &t.Status,
	}
	for i, r := range raw {
		if err := json.Unmarshal(r, fields[i]); err != nil {
			return fmt.Errorf("position tuple element %d: %w", i, err)
		}
	}
	for i, pair := range basket {
		if len(pair) != 2 {
			return fmt.Errorf("underlying %d has %d elements, want 2", i, len(pair))
		}
		var u fcn.Underlying
		if err := json.Unmarshal(pair[0], &u.Ticker); err != nil {
			return fmt.Errorf("underlying %d ticker: %w", i, err)
		}
		if err := json.Unmarshal(pair[1], &u.EntryPrice); err != nil {
			return fmt.Errorf("underlying %d price: %w", i, err)
		}
		t.Underlyings = append(t.Underlyings, u)
	}
	return nil
}
