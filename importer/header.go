package importer

import (
	"fmt"
	"strings"
)

// Field is a position attribute that can be read from a column.
type Field int

const (
	Product Field = iota // mandatory, anchors the header row
	Client
	Issuer
	Currency
	Nominal
	Coupon
	StrikeDate
	KOObsDate
	Maturity
	Tenor
	KI
	KO
	Strike
	Underlyings
	numFields
)

var fieldNames = [numFields]string{
	"product", "client", "issuer", "currency", "nominal", "coupon", "strikeDate",
	"koObsDate", "maturity", "tenor", "ki", "ko", "strike", "underlyings",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// synonyms are lower case fragments looked up in header cells. Fields are
// matched in declaration order: KOObsDate before KO so that "ko obs date" is
// not read as the KO level.
var synonyms = [numFields][]string{
	Product:     {"product", "name", "產品", "名稱", "商品", "title", "標的名稱"},
	Client:      {"client", "investor", "customer", "投資人", "客戶", "姓名"},
	Issuer:      {"issuer", "bank", "發行商", "發行", "銀行"},
	Currency:    {"currency", "ccy", "幣別", "幣"},
	Nominal:     {"nominal", "notional", "amount", "principal", "本金", "名目", "金額"},
	Coupon:      {"coupon", "rate", "年息", "配息", "利率"},
	StrikeDate:  {"strike date", "trade date", "交易日", "期初"},
	KOObsDate:   {"ko obs", "observation", "觀察"},
	Maturity:    {"maturity", "expiry", "到期"},
	Tenor:       {"tenor", "存續", "天期"},
	KI:          {"ki", "knock-in", "下限"},
	KO:          {"ko", "knock-out", "提前"},
	Strike:      {"strike", "履約", "執行"},
	Underlyings: {"underlying", "ticker", "標的", "連結"},
}

// HeaderScanRows is the number of leading rows searched for a header.
const HeaderScanRows = 20

// Header locates the header row of a grid and the column of each recognized
// field.
type Header struct {
	Row     int
	Columns map[Field]int
}

// Column returns the column index of f, if the header has one.
func (h Header) Column(f Field) (int, bool) {
	i, ok := h.Columns[f]
	return i, ok
}

// Cell returns the trimmed value of f in row, or "" when the column is missing
// or the row is too short.
func (h Header) Cell(row []string, f Field) string {
	i, ok := h.Column(f)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// FindHeader returns the first row, among the first HeaderScanRows, that has
// a product column.
func FindHeader(grid [][]string) (Header, error) {
	for i, row := range grid {
		if i >= HeaderScanRows {
			break
		}
		if cols, ok := matchRow(row); ok {
			return Header{Row: i, Columns: cols}, nil
		}
	}
	excerpt := "<empty>"
	if len(grid) > 0 {
		excerpt = strings.Join(grid[0], ",")
	}
	return Header{}, &Error{
		Reason:  fmt.Sprintf("no header row with a product column in the first %d rows", HeaderScanRows),
		Excerpt: excerpt,
	}
}

// matchRow maps fields to the cells of row. A cell claimed by a field is not
// considered for the following ones.
func matchRow(row []string) (map[Field]int, bool) {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.ToLower(strings.TrimSpace(c))
	}
	claimed := make([]bool, len(cells))
	cols := make(map[Field]int)
	for f := Field(0); f < numFields; f++ {
		i := firstMatch(cells, claimed, synonyms[f])
		if i < 0 {
			if f == Product {
				return nil, false
			}
			continue
		}
		claimed[i] = true
		cols[f] = i
	}
	return cols, true
}

func firstMatch(cells []string, claimed []bool, syns []string) int {
	for i, cell := range cells {
		if claimed[i] || cell == "" {
			continue
		}
		for _, s := range syns {
			if strings.Contains(cell, s) {
				return i
			}
		}
	}
	return -1
}
