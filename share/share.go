// Package share packs a client's positions into a short URL-safe string, and
// back.
//
// The payload is first minified into positional tuples (see Compact), then
// serialized to JSON and encoded in unpadded base64url so that it fits in a
// URL fragment:
//
//	#share=eyJ2IjoxLCJuIjoi546L5bCP5piOIiwidCI6IjIwMjQtMDUtMDEiLCJwIjpbXSwibSI6e319
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fcn"
)

// ErrCorrupt is returned for any share string or file that cannot be read.
// Nothing of a corrupted payload is ever returned.
var ErrCorrupt = errors.New("share link invalid or corrupted")

// Prefix introduces a share string in a URL fragment.
const Prefix = "#share="

// GuestClientID is the client id of every position read from a share.
const GuestClientID = "guest"

// Payload is the expanded form of a share: one client's positions and the
// prices they need.
type Payload struct {
	ClientName  string         `json:"clientName"`
	LastUpdated string         `json:"lastUpdated"`
	Positions   []fcn.Position `json:"positions"`
	Prices      *fcn.Prices    `json:"prices"`
}

// FromBook returns the payload of a client of b. Prices are limited to the
// client's underlyings, under the key the book knows them by.
func FromBook(b *fcn.Book, clientID string) (Payload, error) {
	c, ok := b.Client(clientID)
	if !ok {
		return Payload{}, fmt.Errorf("cannot share %q: %w", clientID, fcn.ErrUnknownClient)
	}
	return Payload{
		ClientName:  c.Name,
		LastUpdated: b.LastUpdated(),
		Positions:   b.Positions(c.ID),
		Prices:      b.Prices().Restrict(b.Tickers(c.ID)),
	}, nil
}

// Encode returns s in unpadded base64url.
func Encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode. It also accepts padded or standard base64, and
// text preceded by Prefix (a full URL included).
func Decode(s string) (string, error) {
	if i := strings.Index(s, Prefix); i >= 0 {
		s = s[i+len(Prefix):]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return string(b), nil
}

// Link returns the fragment sharing p, Prefix included.
func Link(p Payload) (string, error) {
	data, err := json.Marshal(Minify(p))
	if err != nil {
		return "", fmt.Errorf("cannot share %q: %w", p.ClientName, err)
	}
	return Prefix + Encode(string(data)), nil
}

// Open reads a share string as produced by Link.
func Open(s string) (Payload, error) {
	text, err := Decode(s)
	if err != nil {
		return Payload{}, err
	}
	return Unminify([]byte(text))
}

// WriteFile writes the compact form of p as an indented JSON document.
func WriteFile(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Minify(p))
}

// ReadFile reads a document written by WriteFile. Expanded payloads are
// accepted too.
func ReadFile(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, err
	}
	return Unminify(data)
}
