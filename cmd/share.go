package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/date"
	"github.com/etnz/fcn/renderer"
	"github.com/etnz/fcn/share"
	"github.com/google/subcommands"
)

type shareCmd struct {
	client string
	output string
}

func (*shareCmd) Name() string     { return "share" }
func (*shareCmd) Synopsis() string { return "share a client's positions as a link" }
func (*shareCmd) Usage() string {
	return `fcn share -c <client> [-o <file>]

  Prints a link holding the client's positions and the prices of their
  underlyings. Anyone with the link can open a read-only report with
  'fcn open'. With -o, the same content is written to a JSON file instead.
`
}

func (c *shareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "c", "", "Client id or name.")
	f.StringVar(&c.output, "o", "", "Write a share file instead of printing a link.")
}

func (c *shareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.client == "" {
		fmt.Fprintln(os.Stderr, "Error: -c is required")
		return subcommands.ExitUsageError
	}
	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}
	client, err := resolveClient(b, c.client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := share.FromBook(b, client.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		if err := share.WriteFile(file, p); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing share file: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	link, err := share.Link(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, a.cfg.Share.BaseURL+link)
	return subcommands.ExitSuccess
}

type openCmd struct {
	secret string
	format string
	output string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "report a shared link or file" }
func (*openCmd) Usage() string {
	return `fcn open [-secret <secret>] [-format term|md|html] <link or file>

  Reports the positions of a link printed by 'fcn share', or of a share
  file. The book is not read nor modified.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.secret, "secret", os.Getenv("FCN_OPEN_SECRET"), "Access secret, when the configuration sets one.")
	f.StringVar(&c.format, "format", "term", "Output format: term, md or html.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
}

func (c *openCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: open takes exactly one link or file")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !a.cfg.Auth.Check(c.secret) {
		fmt.Fprintln(os.Stderr, "Error: access denied")
		return subcommands.ExitFailure
	}

	p, err := readShare(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open share: %v\n", err)
		return subcommands.ExitFailure
	}
	clients := []fcn.Client{{ID: share.GuestClientID, Name: p.ClientName}}
	r := renderer.NewReport(p.ClientName, p.LastUpdated, date.Today(), clients, fcn.ClassifyAll(p.Positions, p.Prices))
	return writeReport(renderer.RenderReport(r), c.format, c.output)
}

// readShare reads arg as a file, or as a link when no such file exists.
func readShare(arg string) (share.Payload, error) {
	file, err := os.Open(arg)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENAMETOOLONG) {
		return share.Open(arg)
	}
	if err != nil {
		return share.Payload{}, err
	}
	defer file.Close()
	return share.ReadFile(file)
}
