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

type allocateCmd struct {
	date   string
	asset  string
	unit   string
	amount string
	by     string
	ref    refFlags
}

func (*allocateCmd) Name() string { return "allocate" }
func (*allocateCmd) Synopsis() string {
	return "assign part of an asset's value to a consuming business unit"
}
func (*allocateCmd) Usage() string {
	return `icl allocate -asset <id> -unit <unit> -amount <amount> [-d <date>] <attribution flags>

  Moves value from the asset account to the allocated account. The book
  value is unchanged; allocation never exceeds the unallocated book value.
`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Allocation date (defaults to today).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier.")
	f.StringVar(&c.unit, "unit", "", "Consuming business unit.")
	f.StringVar(&c.amount, "amount", "", "Amount to allocate.")
	f.StringVar(&c.by, "by", "", "Actor recording the event.")
	c.ref.SetFlags(f)
}

func (c *allocateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		return lc.Allocate(asset, on, c.unit, amount, ref, c.by)
	})
}
