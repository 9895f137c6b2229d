package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/fetch"
	"github.com/etnz/fcn/importer"
	"github.com/etnz/fcn/logger"
	"github.com/google/subcommands"
)

type importCmd struct {
	sheet  string
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the book positions with a spreadsheet" }
func (*importCmd) Usage() string {
	return `fcn import [<file>]
fcn import -sheet <spreadsheet id or url> [-format csv|html]

  Replaces every client and position of the book with the content of a CSV
  file, an HTML table, or a published spreadsheet. Columns are recognized
  from their header, in English or Chinese, in any order; only a product
  name column is required.

  The spreadsheet is remembered and can be imported again with 'fcn sync'.
  Prices are kept.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sheet, "sheet", "", "Published spreadsheet to import.")
	f.StringVar(&c.format, "format", "csv", "Spreadsheet export format: csv or html.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}

	var raw string
	switch {
	case c.sheet != "":
		ref, err := fetch.SheetRef(c.sheet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if raw, err = fetchSheet(ctx, a, c.sheet, c.format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		b.SetSheetID(ref)
	case f.NArg() == 1:
		data, err := os.ReadFile(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		raw = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		raw = string(data)
	}

	if status := replaceBook(a, b, raw); status != subcommands.ExitSuccess {
		return status
	}
	return a.commit(b)
}

type syncCmd struct {
	format string
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "import the remembered spreadsheet again" }
func (*syncCmd) Usage() string {
	return `fcn sync [-format csv|html]

  Imports again the spreadsheet given to 'fcn import -sheet', replacing every
  client and position of the book.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "csv", "Spreadsheet export format: csv or html.")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	if b.SheetID() == "" {
		fmt.Fprintln(os.Stderr, "Error: no spreadsheet to sync, use 'fcn import -sheet' first")
		return subcommands.ExitFailure
	}
	raw, err := fetchSheet(ctx, a, b.SheetID(), c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := replaceBook(a, b, raw); status != subcommands.ExitSuccess {
		return status
	}
	return a.commit(b)
}

func fetchSheet(ctx context.Context, a *app, sheet, format string) (string, error) {
	addr, err := fetch.SheetURL(sheet, format)
	if err != nil {
		return "", err
	}
	f, err := a.fetcher()
	if err != nil {
		return "", err
	}
	return f.FetchText(ctx, addr)
}

// replaceBook imports raw into b. Nothing is changed when the import fails.
func replaceBook(a *app, b *fcn.Book, raw string) subcommands.ExitStatus {
	res, err := importer.Import(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := b.ReplaceAll(res.Clients, res.Positions); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	a.log.WithComponent("import").WithFields(logger.Fields{
		"clients":   len(res.Clients),
		"positions": len(res.Positions),
		"skipped":   res.Skipped,
	}).Info("imported")
	fmt.Fprintf(stdout, "Imported %d position(s) for %d client(s)\n", len(res.Positions), len(res.Clients))
	return subcommands.ExitSuccess
}
