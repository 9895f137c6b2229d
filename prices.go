package fcn

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Prices is the market price table: the current price of each ticker.
//
// Keys are kept as first seen (they are not normalized) and iteration follows
// insertion order, so lookups that tolerate notation drift are deterministic.
// The zero value is an empty table ready to use.
type Prices struct {
	keys   []string
	values map[string]float64
}

// NewPrices returns an empty price table.
func NewPrices() *Prices { return &Prices{values: make(map[string]float64)} }

// Len returns the number of tickers in the table.
func (p *Prices) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Set sets the price of ticker. An existing key keeps its position.
func (p *Prices) Set(ticker string, price float64) {
	if p.values == nil {
		p.values = make(map[string]float64)
	}
	if _, exists := p.values[ticker]; !exists {
		p.keys = append(p.keys, ticker)
	}
	p.values[ticker] = price
}

// Get returns the price stored under the exact key ticker.
func (p *Prices) Get(ticker string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	v, ok := p.values[ticker]
	return v, ok
}

// Delete removes ticker from the table.
func (p *Prices) Delete(ticker string) {
	if p == nil {
		return
	}
	if _, exists := p.values[ticker]; !exists {
		return
	}
	delete(p.values, ticker)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == ticker })
}

// All iterates over the table in insertion order.
func (p *Prices) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// Tickers returns the table keys in insertion order.
func (p *Prices) Tickers() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Lookup returns the key under which ticker is known, following the same
// rules as Resolve.
func (p *Prices) Lookup(ticker string) (key string, ok bool) {
	if p == nil {
		return "", false
	}
	if _, ok := p.values[ticker]; ok {
		return ticker, true
	}
	target := NormalizeTicker(ticker)
	for _, k := range p.keys {
		if NormalizeTicker(k) == target {
			return k, true
		}
	}
	return "", false
}

// Resolve returns the current price of ticker.
//
// An exact key match wins, otherwise the first key (in insertion order) whose
// normalized form matches the normalized ticker is used. When nothing
// matches, ok is false and the caller is expected to treat the ticker as
// flat.
func (p *Prices) Resolve(ticker string) (price float64, ok bool) {
	k, ok := p.Lookup(ticker)
	if !ok {
		return 0, false
	}
	return p.Get(k)
}

// Merge copies every price of q into p, overwriting existing keys.
func (p *Prices) Merge(q *Prices) {
	for k, v := range q.All() {
		p.Set(k, v)
	}
}

// Clone returns an independent copy of p.
func (p *Prices) Clone() *Prices {
	c := NewPrices()
	c.Merge(p)
	return c
}

// Restrict returns the subset of p relevant to tickers. Each ticker is
// resolved like Resolve does, the original key is kept.
func (p *Prices) Restrict(tickers []string) *Prices {
	r := NewPrices()
	for _, t := range tickers {
		if k, ok := p.Lookup(t); ok {
			r.Set(k, p.values[k])
		}
	}
	return r
}

// MarshalJSON encodes the table as a JSON object in insertion order.
func (p *Prices) MarshalJSON() ([]byte, error) {
	return encodeObject(p.All())
}

// UnmarshalJSON decodes a JSON object of numbers, keeping the document order.
func (p *Prices) UnmarshalJSON(data []byte) error {
	*p = Prices{values: make(map[string]float64)}
	err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var price float64
		if err := dec.Decode(&price); err != nil {
			return fmt.Errorf("price of %q: %w", key, err)
		}
		p.Set(key, price)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot decode prices: %w", err)
	}
	return nil
}

var _ json.Marshaler = (*Prices)(nil)
var _ json.Unmarshaler = (*Prices)(nil)
