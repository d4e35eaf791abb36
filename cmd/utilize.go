package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/intcap/intcap"
)

type utilizeCmd struct {
	date   string
	asset  string
	amount string
	by     string
	ref    refFlags
}

func (*utilizeCmd) Name() string { return "utilize" }
func (*utilizeCmd) Synopsis() string {
	return "record consumption of allocated value by attributed execution"
}
func (*utilizeCmd) Usage() string {
	return `icl utilize -asset <id> -amount <amount> [-d <date>] <attribution flags>

  Records consumption of allocated value. The attribution record's owner
  must match the asset's owning unit; an execution with no resolvable
  owner is rejected.

Usage Examples:
# Consume 1000 against an attribution export file.
$ icl utilize -asset 7b2e... -amount 1000 -ref run-2026-08.json
`
}

func (c *utilizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Utilization date (defaults to today).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier.")
	f.StringVar(&c.amount, "amount", "", "Amount to consume.")
	f.StringVar(&c.by, "by", "", "Actor recording the event.")
	c.ref.SetFlags(f)
}

func (c *utilizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asset, err := uuid.Parse(c.asset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid asset id %q: %v\n", c.asset, err)
		return subcommands.ExitUsageError
	}
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	ref, err := c.ref.Attribution()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return appendAndSave(func(lc intcap.Lifecycle) (intcap.Entry, error) {
		amount, err := parseAmount(lc.Ledger, c.amount)
		if err != nil {
			return intcap.Entry{}, err
		}
		return lc.Utilize(asset, on, amount, ref, c.by)
	})
}
