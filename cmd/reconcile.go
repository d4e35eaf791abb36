package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/intcap/intcap"
)

type reconcileCmd struct {
	date   string
	asset  string
	amount string
	refs   string
	memo   string
	by     string
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "append a signed correction referencing prior entries"
}
func (*reconcileCmd) Usage() string {
	return `icl reconcile -asset <id> -amount <signed amount> -refs <seq,seq,...> [-memo <text>] [-d <date>]

  Appends a correction entry. The referenced entries stay untouched; the
  correction adjusts the book value by the signed amount and is itself
  hash-chained. Reconciliation is accepted even on retired assets.

Usage Examples:
# Correct entry 4 by writing 50 back on the book.
$ icl reconcile -asset 7b2e... -amount 50 -refs 4 -memo "double-counted depreciation"
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Correction date (defaults to today).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier.")
	f.StringVar(&c.amount, "amount", "", "Signed adjustment to the book value.")
	f.StringVar(&c.refs, "refs", "", "Comma-separated sequence numbers of the corrected entries.")
	f.StringVar(&c.memo, "memo", "", "Reason for the correction.")
	f.StringVar(&c.by, "by", "", "Actor recording the event.")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	var refs []uint64
	for _, s := range strings.Split(c.refs, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		seq, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid entry reference %q: %v\n", s, err)
			return subcommands.ExitUsageError
		}
		refs = append(refs, seq)
	}

	return appendAndSave(func(lc intcap.Lifecycle) (intcap.Entry, error) {
		amount, err := parseAmount(lc.Ledger, c.amount)
		if err != nil {
			return intcap.Entry{}, err
		}
		return lc.Reconcile(asset, on, amount, refs, c.memo, c.by)
	})
}
