package share

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/etnz/fcn"
)

func samplePayload() Payload {
	prices := fcn.NewPrices()
	prices.Set("NVDA", 610.5)
	prices.Set("AMD", 135.2)
	prices.Set("TYO:7203", 3550)
	return Payload{
		ClientName:  "王小明",
		LastUpdated: "2024-05-01 (貼上)",
		Prices:      prices,
		Positions: []fcn.Position{
			{
				ID: 12, ClientID: "c1", ProductName: `FCN "Tech" <Giants>`, Issuer: "GS",
				Nominal: 100000, Currency: "USD", CouponRate: 12.5,
				StrikeDate: "2024-01-15", KOObservationStartDate: "2024-02-15", MaturityDate: "2024-07-15", Tenor: "6M",
				KOLevel: 105, KILevel: 70, StrikeLevel: 100,
				Underlyings: []fcn.Underlying{{Ticker: "NVDA", EntryPrice: 550}, {Ticker: "AMD", EntryPrice: 140}},
				Status:      fcn.StatusActive,
			},
			{
				ID: 40, ClientID: "c1", ProductName: "FCN 日股", Issuer: "野村",
				Nominal: 3000000, Currency: "JPY", CouponRate: 9.6,
				KOLevel: 100, KILevel: 65, StrikeLevel: 90,
				Underlyings: []fcn.Underlying{{Ticker: "TYO:7203", EntryPrice: 3000}},
				Status:      "Redeemed",
			},
		},
	}
}

func TestMinifyRoundTrip(t *testing.T) {
	p := samplePayload()
	link, err := Link(p)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if !strings.HasPrefix(link, Prefix) || strings.ContainsAny(link[len(Prefix):], "+/=") {
		t.Errorf("Link() = %q, want an unpadded base64url fragment", link)
	}

	got, err := Open("https://example.com/app" + link)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	want := samplePayload()
	for i := range want.Positions {
		want.Positions[i].ID = int64(i)
		want.Positions[i].ClientID = GuestClientID
	}
	if !reflect.DeepEqual(got.Positions, want.Positions) {
		t.Errorf("positions =\n%+v\nwant\n%+v", got.Positions, want.Positions)
	}
	if got.ClientName != want.ClientName || got.LastUpdated != want.LastUpdated {
		t.Errorf("header = %q %q", got.ClientName, got.LastUpdated)
	}
	if !reflect.DeepEqual(got.Prices.Tickers(), want.Prices.Tickers()) {
		t.Errorf("prices = %v, want %v", got.Prices.Tickers(), want.Prices.Tickers())
	}
}

func TestTupleLayout(t *testing.T) {
	p := samplePayload()
	p.Positions = p.Positions[1:]
	var buf bytes.Buffer
	if err := WriteFile(&buf, p); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"v": 1`, `"n": "王小明"`, `"Redeemed"`, `"TYO:7203"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("file misses %s:\n%s", want, buf.String())
		}
	}

	got, err := ReadFile(&buf)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Positions[0].Status != "Redeemed" {
		t.Errorf("status = %q", got.Positions[0].Status)
	}

	// An active position has no status element.
	b, err := Tuple(samplePayload().Positions[0]).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	const want = `["FCN \"Tech\" <Giants>","GS",100000,"USD",12.5,105,70,100,"2024-01-15","2024-02-15","2024-07-15","6M",[["NVDA",550],["AMD",140]]]`
	if string(b) != want {
		t.Errorf("Tuple = %s\nwant   %s", b, want)
	}
}

func TestUnminifyPassThrough(t *testing.T) {
	const expanded = `{"clientName":"Alice","lastUpdated":"x","positions":[{"id":7,"clientId":"c9","productName":"FCN A","underlyings":[{"ticker":"NVDA","entryPrice":550}]}],"prices":{"NVDA":600}}`
	got, err := Unminify([]byte(expanded))
	if err != nil {
		t.Fatalf("Unminify() error = %v", err)
	}
	if got.ClientName != "Alice" || got.Positions[0].ID != 7 || got.Positions[0].ClientID != "c9" {
		t.Errorf("expanded payload must be kept as is, got %+v", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []string{
		"",
		"hello",
		"王小明 投資組合",
		"a+b/c=d",
		"???>>>~~~",
		`{"n":"日本株","p":[]}`,
	}
	for _, s := range tests {
		enc := Encode(s)
		if strings.ContainsAny(enc, "+/=") {
			t.Errorf("Encode(%q) = %q is not url safe", s, enc)
		}
		got, err := Decode(enc)
		if err != nil || got != s {
			t.Errorf("Decode(Encode(%q)) = %q, %v", s, got, err)
		}
		if got, err := Decode(Prefix + enc); err != nil || got != s {
			t.Errorf("Decode(prefixed) = %q, %v", got, err)
		}
	}

	// Standard padded base64 of "???>>>~~" is accepted.
	if got, err := Decode("Pz8/Pj4+fn4="); err != nil || got != "???>>>~~" {
		t.Errorf("Decode(std) = %q, %v", got, err)
	}
}

func TestCorrupt(t *testing.T) {
	for _, s := range []string{
		"#share=!!!",
		Prefix + Encode("not json"),
		Prefix + Encode(`{"v":2,"p":[]}`),
		Prefix + Encode(`{"v":1,"p":[["too","short"]]}`),
		Prefix + Encode(`{"v":1,"p":[["a","b","x","USD",1,1,1,1,"","","","",[]]]}`),
	} {
		if _, err := Open(s); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Open(%q) error = %v, want %v", s, err, ErrCorrupt)
		}
	}
}

func TestFromBook(t *testing.T) {
	b := fcn.NewBook()
	alice, _ := b.AddClient("Alice")
	b.AddPosition(alice.ID, fcn.Position{Underlyings: []fcn.Underlying{{Ticker: "7203", EntryPrice: 3000}}})
	b.AddPosition("c1", fcn.Position{Underlyings: []fcn.Underlying{{Ticker: "NVDA", EntryPrice: 500}}})
	prices := fcn.NewPrices()
	prices.Set("TYO:7203", 3550)
	b.UpdatePrices(prices, "today")

	p, err := FromBook(b, alice.ID)
	if err != nil {
		t.Fatalf("FromBook() error = %v", err)
	}
	if p.ClientName != "Alice" || len(p.Positions) != 1 || p.LastUpdated != "today" {
		t.Errorf("FromBook() = %+v", p)
	}
	if got := p.Prices.Tickers(); !reflect.DeepEqual(got, []string{"7203"}) {
		t.Errorf("prices = %v, want only the client's underlyings", got)
	}
	if _, err := FromBook(b, "ghost"); !errors.Is(err, fcn.ErrUnknownClient) {
		t.Errorf("FromBook(ghost) error = %v", err)
	}
}
