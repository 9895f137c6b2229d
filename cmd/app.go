// Package cmd implements the fcn command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/fcn"
	"github.com/etnz/fcn/config"
	"github.com/etnz/fcn/fetch"
	"github.com/etnz/fcn/logger"
	"github.com/etnz/fcn/renderer"
	"github.com/google/subcommands"
)

// Commands lists every subcommand with its group.
var Commands = []struct {
	Cmd   subcommands.Command
	Group string
}{
	{&clientCmd{}, "book"},
	{&addCmd{}, "book"},
	{&rmCmd{}, "book"},
	{&pricesCmd{}, "data"},
	{&importCmd{}, "data"},
	{&syncCmd{}, "data"},
	{&reportCmd{}, "output"},
	{&exportCmd{}, "output"},
	{&shareCmd{}, "share"},
	{&openCmd{}, "share"},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, e := range Commands {
		c.Register(e.Cmd, e.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", os.Getenv("FCN_CONFIG"), "Path to a TOML configuration file")
var bookFile = flag.String("book", "", "Path to the book file (overrides the configuration)")
var verbose = flag.Bool("v", false, "Log debug information")

// stdout and stdin are swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// app gathers what a command needs.
type app struct {
	cfg *config.Config
	log *logger.Log
}

// newApp loads the configuration and sets up logging.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, *bookFile, *verbose)
	log := logger.New()
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File, cfg.Logging.MaxSizeMB); err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

// openBook loads the book, a missing file yields a new book.
func (a *app) openBook() (*fcn.Book, error) {
	b, err := fcn.LoadBook(a.cfg.Book.Path)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.WithComponent("cmd").WithFields(logger.Fields{"path": a.cfg.Book.Path}).Info("book does not exist, starting a new one")
		return fcn.NewBook(), nil
	}
	return b, err
}

func (a *app) saveBook(b *fcn.Book) error {
	return fcn.SaveBook(a.cfg.Book.Path, b)
}

func (a *app) fetcher() (*fetch.Fetcher, error) {
	return fetch.New(a.cfg.Fetch, a.log)
}

// setup is the common prologue of commands working on the book.
func setup() (*app, *fcn.Book, subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	b, err := a.openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load book %q: %v\n", a.cfg.Book.Path, err)
		return nil, nil, subcommands.ExitFailure
	}
	return a, b, subcommands.ExitSuccess
}

// commit saves the book and reports failures.
func (a *app) commit(b *fcn.Book) subcommands.ExitStatus {
	if err := a.saveBook(b); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book %q: %v\n", a.cfg.Book.Path, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown prints md styled for the terminal, or raw when styling fails.
func printMarkdown(md string) {
	out, err := renderer.Terminal(md, 120)
	if err != nil {
		out = md
	}
	fmt.Fprint(stdout, out)
}

// resolveClient finds a client by id or name, "" meaning every client.
func resolveClient(b *fcn.Book, key string) (fcn.Client, error) {
	if key == "" {
		return fcn.Client{}, nil
	}
	c, ok := b.FindClient(key)
	if !ok {
		return fcn.Client{}, fmt.Errorf("%w: %q", fcn.ErrUnknownClient, key)
	}
	return c, nil
}
