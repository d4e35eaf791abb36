// Command icl manages an intelligence capital ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/intcap/intcap/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. It must be invoked
// before flag.Parse; outside of a completion request it does nothing.
func completion() {
	event := map[string]complete.Predictor{
		"d":     predict.Nothing,
		"asset": predict.Nothing,
		"by":    predict.Nothing,
		"ref":   predict.Files("*.json"),
	}
	cli := &complete.Command{
		Sub: map[string]*complete.Command{
			"capitalize": {Flags: event},
			"allocate":   {Flags: event},
			"utilize":    {Flags: event},
			"close":      {Flags: event},
			"retire":     {Flags: event},
			"reconcile":  {Flags: event},
			"log":        {},
			"assets":     {},
			"journal":    {},
			"prove":      {},
			"export":     {},
			"verify":     {},
			"topic":      {},
			"help":       {},
		},
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"currency":    predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"},
		},
	}
	cli.Complete("icl")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
