package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/intcap/intcap"
	"github.com/intcap/intcap/renderer"
)

type logCmd struct {
	asset string
	from  uint64
	to    uint64
}

func (*logCmd) Name() string { return "log" }
func (*logCmd) Synopsis() string {
	return "display the chronological log of ledger entries"
}
func (*logCmd) Usage() string {
	return `icl log [-asset <id>] [-from <seq>] [-to <seq>]

  Displays the hash-chained entries in sequence order, with the signed
  book-value impact of each event.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Restrict the log to one asset.")
	f.Uint64Var(&c.from, "from", 0, "First sequence number to display.")
	f.Uint64Var(&c.to, "to", 0, "Last sequence number to display.")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var entries []intcap.Entry
	title := "Ledger"
	if c.asset != "" {
		asset, err := uuid.Parse(c.asset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid asset id %q: %v\n", c.asset, err)
			return subcommands.ExitUsageError
		}
		entries = ledger.AssetEntries(asset)
		title = "Ledger for " + c.asset
	} else {
		for _, e := range ledger.Entries(c.from, c.to) {
			entries = append(entries, e)
		}
	}

	printMarkdown(renderer.LogMarkdown(title, entries))
	return subcommands.ExitSuccess
}
