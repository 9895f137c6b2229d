package fcn

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVHeader lists the export columns. The order is fixed: spreadsheets built
// on top of the export rely on it.
var CSVHeader = []string{
	"投資人", "產品名稱", "發行商", "幣別", "名目本金", "年息(%)", "到期日",
	"KI(%)", "KO(%)", "履約(%)", "最差標的", "現價", "進場價", "履約價", "表現(%)", "狀態",
}

// BOM is the UTF-8 byte order mark prepended to exported files.
const BOM = "\uFEFF"

// UnknownClientName labels positions whose client no longer exists.
const UnknownClientName = "未知"

// WriteCSV writes one line per position with its laggard and status.
//
// Every field is quoted and embedded quotes are doubled, the header line is
// not quoted.
func WriteCSV(w io.Writer, clients []Client, positions []Position, prices *Prices) error {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(CSVHeader, ","))
	for _, pos := range positions {
		v := Classify(pos, prices)
		name, ok := names[pos.ClientID]
		if !ok {
			name = UnknownClientName
		}
		record := []string{
			name,
			pos.ProductName,
			pos.Issuer,
			pos.Currency,
			number(pos.Nominal),
			number(pos.CouponRate),
			pos.MaturityDate,
			number(pos.KILevel),
			number(pos.KOLevel),
			number(pos.StrikeLevel),
			v.Laggard.Ticker,
			number(v.Laggard.CurrentPrice),
			number(v.Laggard.EntryPrice),
			number(v.Laggard.StrikePrice),
			strconv.FormatFloat(float64(v.Laggard.Performance), 'f', 2, 64),
			string(v.Status),
		}
		bw.WriteString("\n")
		for i, field := range record {
			if i > 0 {
				bw.WriteString(",")
			}
			bw.WriteString(quote(field))
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write csv export: %w", err)
	}
	return nil
}

// number formats f in its shortest form, like a spreadsheet would show it.
func number(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
