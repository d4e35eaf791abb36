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

type retireCmd struct {
	date  string
	asset string
	by    string
	ref   refFlags
}

func (*retireCmd) Name() string { return "retire" }
func (*retireCmd) Synopsis() string {
	return "write off an asset's remaining book value and make it terminal"
}
func (*retireCmd) Usage() string {
	return `icl retire -asset <id> [-d <date>] <attribution flags>

  Writes off the asset's remaining book value, justified by an
  attribution reference. Retirement is terminal: afterwards only
  reconciliation entries are accepted for the asset.
`
}

func (c *retireCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Retirement date (defaults to today).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier.")
	f.StringVar(&c.by, "by", "", "Actor recording the event.")
	c.ref.SetFlags(f)
}

func (c *retireCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		return lc.Retire(asset, on, ref, c.by)
	})
}
