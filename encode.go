package fcn

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// This file contains code to persist a book in a single, human readable JSON
// file. Saving is best effort: the file is written next to its final name and
// renamed, nothing more.

// jbook is the persisted form of a Book.
type jbook struct {
	Clients     []Client   `json:"clients"`
	Positions   []Position `json:"positions"`
	Prices      *Prices    `json:"prices"`
	LastUpdated string     `json:"lastUpdated,omitempty"`
	SheetID     string     `json:"sheetId,omitempty"`
}

// DecodeBook reads a book from r.
//
// The decoder is forgiving the way a local save must be: a file without
// clients gets the default client, and positions saved before clients existed
// (no clientId) are given to the first client.
func DecodeBook(r io.Reader) (*Book, error) {
	var jb jbook
	if err := json.NewDecoder(r).Decode(&jb); err != nil {
		return nil, fmt.Errorf("cannot decode book: %w", err)
	}

	b := NewBook()
	if len(jb.Clients) > 0 {
		b.clients = jb.Clients
	}
	for _, p := range jb.Positions {
		if p.ClientID == "" {
			p.ClientID = b.clients[0].ID
		}
		b.positions = append(b.positions, p)
	}
	if jb.Prices != nil {
		b.prices = jb.Prices
	}
	b.lastUpdated = jb.LastUpdated
	b.sheetID = jb.SheetID
	return b, nil
}

// EncodeBook writes b to w as an indented JSON document.
func EncodeBook(w io.Writer, b *Book) error {
	b.mu.RLock()
	jb := jbook{
		Clients:     b.clients,
		Positions:   b.positions,
		Prices:      b.prices,
		LastUpdated: b.lastUpdated,
		SheetID:     b.sheetID,
	}
	if jb.Positions == nil {
		jb.Positions = []Position{}
	}
	data, err := json.MarshalIndent(jb, "", "  ")
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("cannot encode book: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write book: %w", err)
	}
	return nil
}

// LoadBook reads the book saved at path. The error wraps fs.ErrNotExist when
// there is no such file.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", path, err)
	}
	return b, nil
}

// SaveBook saves b at path.
func SaveBook(path string, b *Book) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create book folder: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot save book: %w", err)
	}
	if err := EncodeBook(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot save book: %w", err)
	}
	return os.Rename(tmp, path)
}
