package fcn

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrUnknownClient   = errors.New("unknown client")
	ErrUnknownPosition = errors.New("unknown position")
	ErrLastClient      = errors.New("at least one client must be kept")
	ErrEmptyName       = errors.New("client name cannot be empty")
	ErrEmptyBasket     = errors.New("a position needs at least one underlying")
)

// Book is the coordinating context that owns the clients, their positions
// and the price table.
//
// Writes are serialized; readers get copies, so classifications computed
// from them can run concurrently with later writes.
type Book struct {
	mu          sync.RWMutex
	clients     []Client
	positions   []Position
	prices      *Prices
	lastUpdated string
	sheetID     string
}

// NewBook returns a book with a single default client and no positions.
func NewBook() *Book {
	return &Book{
		clients: []Client{{ID: "c1", Name: DefaultClientName}},
		prices:  NewPrices(),
	}
}

// Clients returns the clients in creation order.
func (b *Book) Clients() []Client {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.clients)
}

// Client returns the client identified by id.
func (b *Book) Client(id string) (Client, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.clientIndex(id)
	if i < 0 {
		return Client{}, false
	}
	return b.clients[i], true
}

// FindClient returns the client whose id or name is key. Ids take precedence.
func (b *Book) FindClient(key string) (Client, bool) {
	if c, ok := b.Client(key); ok {
		return c, true
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.clients {
		if c.Name == key {
			return c, true
		}
	}
	return Client{}, false
}

func (b *Book) clientIndex(id string) int {
	return slices.IndexFunc(b.clients, func(c Client) bool { return c.ID == id })
}

// AddClient creates a client named name.
func (b *Book) AddClient(name string) (Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Client{}, ErrEmptyName
	}
	c := Client{ID: "c" + uuid.NewString(), Name: name}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients = append(b.clients, c)
	return c, nil
}

// DeleteClient deletes a client and all its positions. The last client
// cannot be deleted.
func (b *Book) DeleteClient(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.clientIndex(id)
	if i < 0 {
		return fmt.Errorf("cannot delete client %q: %w", id, ErrUnknownClient)
	}
	if len(b.clients) <= 1 {
		return fmt.Errorf("cannot delete client %q: %w", id, ErrLastClient)
	}
	b.clients = slices.Delete(b.clients, i, i+1)
	b.positions = slices.DeleteFunc(b.positions, func(p Position) bool { return p.ClientID == id })
	return nil
}

// Positions returns copies of the positions of clientID, or of every client
// when clientID is empty.
func (b *Book) Positions(clientID string) []Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	res := make([]Position, 0, len(b.positions))
	for _, p := range b.positions {
		if clientID == "" || p.ClientID == clientID {
			res = append(res, p.clone())
		}
	}
	return res
}

// AddPosition adds pos to the book on behalf of clientID.
//
// Underlyings with a blank ticker are dropped and tickers are upper cased; at
// least one must remain. The product name defaults to "FCN " followed by the
// tickers, the issuer to "Self". Every ticker the price table cannot resolve
// is seeded with its entry price, so the new position starts flat.
func (b *Book) AddPosition(clientID string, pos Position) (Position, error) {
	underlyings := make([]Underlying, 0, len(pos.Underlyings))
	for _, u := range pos.Underlyings {
		ticker := strings.ToUpper(strings.TrimSpace(u.Ticker))
		if ticker == "" {
			continue
		}
		underlyings = append(underlyings, Underlying{Ticker: ticker, EntryPrice: u.EntryPrice})
	}
	if len(underlyings) == 0 {
		return Position{}, ErrEmptyBasket
	}
	pos.Underlyings = underlyings
	pos.ClientID = clientID
	if strings.TrimSpace(pos.ProductName) == "" {
		pos.ProductName = "FCN " + pos.Tickers()
	}
	if strings.TrimSpace(pos.Issuer) == "" {
		pos.Issuer = "Self"
	}
	if pos.Status == "" {
		pos.Status = StatusActive
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clientIndex(clientID) < 0 {
		return Position{}, fmt.Errorf("cannot add position to %q: %w", clientID, ErrUnknownClient)
	}
	pos.ID = b.nextPositionID()
	b.seedPrices(pos.Underlyings)
	b.positions = append(b.positions, pos)
	return pos.clone(), nil
}

func (b *Book) nextPositionID() int64 {
	var id int64
	for _, p := range b.positions {
		id = max(id, p.ID)
	}
	return id + 1
}

// seedPrices adds the entry price of every underlying the table cannot resolve.
func (b *Book) seedPrices(underlyings []Underlying) {
	for _, u := range underlyings {
		if _, ok := b.prices.Resolve(u.Ticker); !ok {
			b.prices.Set(u.Ticker, u.EntryPrice)
		}
	}
}

// DeletePosition deletes the position identified by id.
func (b *Book) DeletePosition(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.positions, func(p Position) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("cannot delete position %d: %w", id, ErrUnknownPosition)
	}
	b.positions = slices.Delete(b.positions, i, i+1)
	return nil
}

// ReplaceAll replaces every client and position of the book: it is a bulk
// load, not a merge. The price table is kept and seeded with the entry price
// of unknown underlyings.
func (b *Book) ReplaceAll(clients []Client, positions []Position) error {
	if len(clients) == 0 {
		return fmt.Errorf("cannot replace the book: %w", ErrLastClient)
	}
	ids := make(map[string]bool, len(clients))
	for _, c := range clients {
		ids[c.ID] = true
	}
	for _, p := range positions {
		if !ids[p.ClientID] {
			return fmt.Errorf("cannot replace the book: position %q belongs to %q: %w", p.ProductName, p.ClientID, ErrUnknownClient)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients = slices.Clone(clients)
	b.positions = make([]Position, 0, len(positions))
	for _, p := range positions {
		b.positions = append(b.positions, p.clone())
		b.seedPrices(p.Underlyings)
	}
	return nil
}

// Prices returns a copy of the price table.
func (b *Book) Prices() *Prices {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.prices.Clone()
}

// UpdatePrices overwrites the table with every price in update and records
// label as the last update.
func (b *Book) UpdatePrices(update *Prices, label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prices.Merge(update)
	b.lastUpdated = label
}

// RemovePrices drops the price of each ticker, matched as Resolve does, and
// returns the number of prices removed. Positions on these tickers are then
// valued at their entry price.
func (b *Book) RemovePrices(tickers ...string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, t := range tickers {
		if k, ok := b.prices.Lookup(t); ok {
			b.prices.Delete(k)
			n++
		}
	}
	return n
}

// LastUpdated describes the last price update.
func (b *Book) LastUpdated() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdated
}

// SheetID returns the spreadsheet used to sync the book.
func (b *Book) SheetID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sheetID
}

// SetSheetID records the spreadsheet used to sync the book, as an id with an
// optional "#gid=N" tab.
func (b *Book) SetSheetID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sheetID = id
}

// Tickers returns every ticker referenced by the positions of clientID (all
// clients when empty), sorted and without duplicates.
func (b *Book) Tickers(clientID string) []string {
	var tickers []string
	for _, p := range b.Positions(clientID) {
		for _, u := range p.Underlyings {
			tickers = append(tickers, u.Ticker)
		}
	}
	slices.Sort(tickers)
	return slices.Compact(tickers)
}

// Classify returns the risk view of every position of clientID (all clients
// when empty).
func (b *Book) Classify(clientID string) []RiskView {
	positions := b.Positions(clientID)
	return ClassifyAll(positions, b.Prices())
}
