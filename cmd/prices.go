package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/date"
	"github.com/etnz/fcn/fetch"
	"github.com/etnz/fcn/importer"
	"github.com/etnz/fcn/tabular"
	"github.com/google/subcommands"
)

type pricesCmd struct {
	sheet    string
	jsonURL  string
	jsonPath string
	list     bool
	remove   bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "update market prices" }
func (*pricesCmd) Usage() string {
	return `fcn prices [-l]
fcn prices < quotes.txt
fcn prices -sheet <spreadsheet id or url>
fcn prices -json <url> -path <jsonpath>
fcn prices -rm <ticker>...

  Updates the price table. Without flags, quotes are read from the standard
  input, one "TICKER PRICE" per line (for instance "NVDA 800" or
  "TYO:7203 ¥3,500"). Prices can also be read from a published spreadsheet
  with a ticker and a price column, or from a JSON quote service.

  With -l the price table is printed. With -rm the prices of the given
  tickers are removed, positions on them are then valued at entry.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sheet, "sheet", "", "Published spreadsheet holding the prices.")
	f.StringVar(&c.jsonURL, "json", "", "URL of a JSON document holding the prices.")
	f.StringVar(&c.jsonPath, "path", "$", "JSONPath selecting the prices in the -json document.")
	f.BoolVar(&c.list, "l", false, "List the price table.")
	f.BoolVar(&c.remove, "rm", false, "Remove the prices of the tickers given as arguments.")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	if c.list {
		for t, p := range b.Prices().All() {
			fmt.Fprintf(stdout, "%s\t%g\n", t, p)
		}
		fmt.Fprintf(stdout, "updated: %s\n", b.LastUpdated())
		return subcommands.ExitSuccess
	}
	if c.remove {
		n := b.RemovePrices(f.Args()...)
		if status := a.commit(b); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Fprintf(stdout, "Removed %d price(s)\n", n)
		return subcommands.ExitSuccess
	}

	var (
		prices *fcn.Prices
		source string
		err    error
	)
	switch {
	case c.sheet != "":
		source = "Google Sheet"
		prices, err = c.fromSheet(ctx, a)
	case c.jsonURL != "":
		source = "JSON"
		prices, err = c.fromJSON(ctx, a)
	default:
		source = "貼上"
		var text []byte
		if text, err = io.ReadAll(stdin); err == nil {
			prices = importer.ParsePrices(string(text))
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading prices: %v\n", err)
		return subcommands.ExitFailure
	}
	if prices.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no price found")
		return subcommands.ExitFailure
	}

	b.UpdatePrices(prices, fmt.Sprintf("%s (%s)", date.Today(), source))
	if status := a.commit(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "成功更新 %d 筆\n", prices.Len())
	return subcommands.ExitSuccess
}

func (c *pricesCmd) fromSheet(ctx context.Context, a *app) (*fcn.Prices, error) {
	addr, err := fetch.SheetURL(c.sheet, "csv")
	if err != nil {
		return nil, err
	}
	f, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	text, err := f.FetchText(ctx, addr)
	if err != nil {
		return nil, err
	}
	grid, err := tabular.Parse(text)
	if err != nil {
		return nil, err
	}
	return importer.ImportPrices(grid)
}

func (c *pricesCmd) fromJSON(ctx context.Context, a *app) (*fcn.Prices, error) {
	f, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	var doc any
	if err := f.FetchJSON(ctx, strings.TrimSpace(c.jsonURL), &doc); err != nil {
		return nil, err
	}
	return importer.PricesFromJSON(doc, c.jsonPath)
}
