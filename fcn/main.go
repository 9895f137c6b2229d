package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fcn/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion().Complete("fcn")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
// Run "COMP_INSTALL=1 fcn" to install it.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, e := range cmd.Commands {
		f := flag.NewFlagSet(e.Cmd.Name(), flag.ContinueOnError)
		e.Cmd.SetFlags(f)
		root.Sub[e.Cmd.Name()] = &complete.Command{
			Flags: flagPredictors(f),
			Args:  predict.Files("*"),
		}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		switch fl.Name {
		case "o", "book", "config":
			flags[fl.Name] = predict.Files("*")
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}
