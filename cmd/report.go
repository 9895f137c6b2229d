package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/date"
	"github.com/etnz/fcn/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	client string
	format string
	output string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "risk report of the positions" }
func (*reportCmd) Usage() string {
	return `fcn report [-c <client>] [-format term|md|html] [-o <file>]

  Reports every position against the current prices: its worst performing
  underlying, its status (KI HIT, Near KI, KO Ready or Normal) and the
  coupon it pays, with totals per currency.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "c", "", "Client id or name. Defaults to every client.")
	f.StringVar(&c.format, "format", "term", "Output format: term, md or html.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	client, err := resolveClient(b, c.client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	title := "全部投資人"
	if client.ID != "" {
		title = client.Name
	}
	r := renderer.NewReport(title, b.LastUpdated(), date.Today(), b.Clients(), b.Classify(client.ID))
	return writeReport(renderer.RenderReport(r), c.format, c.output)
}

// writeReport outputs md in format, to file when not empty.
func writeReport(md, format, file string) subcommands.ExitStatus {
	var out []byte
	switch format {
	case "term":
		if file == "" {
			printMarkdown(md)
			return subcommands.ExitSuccess
		}
		out = []byte(md)
	case "md":
		out = []byte(md)
	case "html":
		var err error
		if out, err = renderer.HTML(md); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering HTML: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		return subcommands.ExitUsageError
	}

	if file == "" {
		stdout.Write(out)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(file, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export positions as CSV" }
func (*exportCmd) Usage() string {
	return `fcn export [-o <file>]

  Writes every position, one row per position, with its current worst
  performance and status. The file starts with a byte order mark so that
  spreadsheet applications read it as UTF-8.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if _, err := w.Write([]byte(fcn.BOM)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := fcn.WriteCSV(w, b.Clients(), b.Positions(""), b.Prices()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
