package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/intcap/intcap"
	"github.com/intcap/intcap/date"
	"github.com/intcap/intcap/renderer"
)

type journalCmd struct {
	date   string
	period string
}

func (*journalCmd) Name() string { return "journal" }
func (*journalCmd) Synopsis() string {
	return "derive the double-entry journal for an accounting period"
}
func (*journalCmd) Usage() string {
	return `icl journal [-p <period>] [-d <date>]

  Derives the double-entry journal for the period containing the given
  date and checks that debits equal credits. The journal is recomputed
  from the chain every time; it is never stored.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Accounting period (day, week, month, quarter, year).")
	f.StringVar(&c.date, "d", "", "A date within the period (defaults to today).")
}

func (c *journalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	batch, err := intcap.DeriveBatch(ledger, date.NewRange(on, period))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.JournalMarkdown(batch))
	return subcommands.ExitSuccess
}
