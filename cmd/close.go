package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/intcap/intcap"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

type closeCmd struct {
	date   string
	period string
	asset  string
	usage  string
	by     string
}

func (*closeCmd) Name() string { return "close" }
func (*closeCmd) Synopsis() string {
	return "close an accounting period, recording depreciation for an asset"
}
func (*closeCmd) Usage() string {
	return `icl close -asset <id> [-p <period>] [-d <date>] [-usage <metric>]

  Computes one period of depreciation with the asset's method and appends
  the depreciation entry. A period can be closed at most once per asset;
  overlapping closures are rejected. The usage metric feeds usage-based
  methods and is ignored otherwise.

Usage Examples:
# Close August 2026 for an asset.
$ icl close -asset 7b2e... -p month -d 2026-08-31
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Accounting period (day, week, month, quarter, year).")
	f.StringVar(&c.date, "d", "", "A date within the period to close (defaults to today).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier.")
	f.StringVar(&c.usage, "usage", "0", "Utilization metric for usage-based methods.")
	f.StringVar(&c.by, "by", "", "Actor recording the event.")
}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	usage, err := decimal.NewFromString(c.usage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid usage %q: %v\n", c.usage, err)
		return subcommands.ExitUsageError
	}

	return appendAndSave(func(lc intcap.Lifecycle) (intcap.Entry, error) {
		return lc.ClosePeriod(asset, date.NewRange(on, period), usage, c.by)
	})
}
