package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type clientCmd struct{}

func (*clientCmd) Name() string     { return "client" }
func (*clientCmd) Synopsis() string { return "list, add or remove clients" }
func (*clientCmd) Usage() string {
	return `fcn client ls
fcn client add <name>
fcn client rm <id or name>

  Manages the clients of the book. Removing a client removes its positions.
  The last client cannot be removed.
`
}

func (*clientCmd) SetFlags(f *flag.FlagSet) {}

func (c *clientCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 {
		args = []string{"ls"}
	}
	a, b, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}

	switch args[0] {
	case "ls":
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPOSITIONS")
		for _, cl := range b.Clients() {
			fmt.Fprintf(w, "%s\t%s\t%d\n", cl.ID, cl.Name, len(b.Positions(cl.ID)))
		}
		w.Flush()
		return subcommands.ExitSuccess

	case "add":
		name := strings.Join(args[1:], " ")
		cl, err := b.AddClient(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error adding client: %v\n", err)
			return subcommands.ExitUsageError
		}
		if status := a.commit(b); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Fprintf(stdout, "Added client %s (%s)\n", cl.Name, cl.ID)
		return subcommands.ExitSuccess

	case "rm":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: client rm takes exactly one id or name")
			return subcommands.ExitUsageError
		}
		cl, err := resolveClient(b, args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := b.DeleteClient(cl.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing client: %v\n", err)
			return subcommands.ExitFailure
		}
		if status := a.commit(b); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Fprintf(stdout, "Removed client %s and its positions\n", cl.Name)
		return subcommands.ExitSuccess

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown client action %q\n", args[0])
		return subcommands.ExitUsageError
	}
}
