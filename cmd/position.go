package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/date"
	"github.com/etnz/fcn/importer"
	"github.com/google/subcommands"
)

type addCmd struct {
	client     string
	product    string
	issuer     string
	nominal    float64
	currency   string
	coupon     float64
	ki, ko     float64
	strike     float64
	strikeDate string
	koDate     string
	maturity   string
	tenor      string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a position to a client" }
func (*addCmd) Usage() string {
	return `fcn add [-c <client>] [flags] <TICKER:ENTRY>...

  Adds a note to a client. Each argument is an underlying with its entry
  price, for instance:

    fcn add -c 王小明 -p "FCN Tech" -n 100000 -coupon 12.5 -ki 70 -ko 105 NVDA:550 AMD:140

  Tickers without a price use the entry price 100. The product name defaults
  to "FCN" followed by the tickers.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "c", "", "Client id or name. Defaults to the first client.")
	f.StringVar(&c.product, "p", "", "Product name.")
	f.StringVar(&c.issuer, "issuer", "", "Issuer.")
	f.Float64Var(&c.nominal, "n", 0, "Nominal amount.")
	f.StringVar(&c.currency, "ccy", importer.DefaultCurrency, "Currency code.")
	f.Float64Var(&c.coupon, "coupon", 0, "Annual coupon in percent.")
	f.Float64Var(&c.ki, "ki", importer.DefaultKILevel, "Knock-in level in percent.")
	f.Float64Var(&c.ko, "ko", importer.DefaultKOLevel, "Knock-out level in percent.")
	f.Float64Var(&c.strike, "strike", importer.DefaultStrikeLevel, "Strike level in percent.")
	f.StringVar(&c.strikeDate, "strike-date", date.Today().String(), "Strike date.")
	f.StringVar(&c.koDate, "ko-date", "", "First KO observation date.")
	f.StringVar(&c.maturity, "maturity", "", "Maturity date.")
	f.StringVar(&c.tenor, "tenor", "", "Tenor, for display (e.g. 6M).")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one underlying is required")
		return subcommands.ExitUsageError
	}
	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}

	client := b.Clients()[0]
	if c.client != "" {
		var err error
		if client, err = resolveClient(b, c.client); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	pos, err := b.AddPosition(client.ID, fcn.Position{
		ProductName:            c.product,
		Issuer:                 c.issuer,
		Nominal:                c.nominal,
		Currency:               strings.ToUpper(c.currency),
		CouponRate:             c.coupon,
		StrikeDate:             date.Normalize(c.strikeDate),
		KOObservationStartDate: date.Normalize(c.koDate),
		MaturityDate:           date.Normalize(c.maturity),
		Tenor:                  c.tenor,
		KILevel:                c.ki,
		KOLevel:                c.ko,
		StrikeLevel:            c.strike,
		Underlyings:            importer.ParseUnderlyings(strings.Join(f.Args(), "/")),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding position: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := a.commit(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Added position #%d %s for %s\n", pos.ID, pos.ProductName, client.Name)
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove positions" }
func (*rmCmd) Usage() string {
	return `fcn rm <position id>...

  Removes positions by id. Ids are listed by 'fcn report'.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one position id is required")
		return subcommands.ExitUsageError
	}
	var ids []int64
	for _, arg := range f.Args() {
		id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid position id %q\n", arg)
			return subcommands.ExitUsageError
		}
		ids = append(ids, id)
	}

	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	for _, id := range ids {
		if err := b.DeletePosition(id); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing position #%d: %v\n", id, err)
			return subcommands.ExitFailure
		}
	}
	if status := a.commit(b); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Removed %d position(s)\n", len(ids))
	return subcommands.ExitSuccess
}
