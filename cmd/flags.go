package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/intcap/intcap"
	"github.com/intcap/intcap/date"
	"github.com/intcap/intcap/icae"
	"github.com/shopspring/decimal"
)

// parseDate parses a date flag, defaulting to today when empty.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// parseAmount parses a decimal amount flag into the ledger currency.
func parseAmount(l *intcap.Ledger, s string) (intcap.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return intcap.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return intcap.M(d, l.Currency()), nil
}

// refFlags collects the flags describing an attribution reference. An
// event command either points at an attribution-engine export file, or
// spells the fields out.
type refFlags struct {
	file   string
	source string
	record string
	owner  string
	metric string
	on     string
}

func (r *refFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.file, "ref", "", "Path to an attribution record export (JSON). Overrides the -src/-record/-owner/-metric/-ref-date flags.")
	f.StringVar(&r.source, "src", "", "Attribution source system.")
	f.StringVar(&r.record, "record", "", "Attribution record identifier.")
	f.StringVar(&r.owner, "owner", "", "Owner resolved by the attribution system.")
	f.StringVar(&r.metric, "metric", "0", "Cost or usage metric carried by the record.")
	f.StringVar(&r.on, "ref-date", "", "Date of the attribution record (defaults to today).")
}

func (r *refFlags) Attribution() (intcap.Attribution, error) {
	if r.file != "" {
		raw, err := os.ReadFile(r.file)
		if err != nil {
			return intcap.Attribution{}, err
		}
		return icae.DefaultMapping().Parse(raw)
	}
	metric, err := decimal.NewFromString(r.metric)
	if err != nil {
		return intcap.Attribution{}, fmt.Errorf("invalid metric %q: %w", r.metric, err)
	}
	on, err := parseDate(r.on)
	if err != nil {
		return intcap.Attribution{}, err
	}
	return intcap.Attribution{
		Source: r.source,
		Record: r.record,
		Owner:  r.owner,
		Metric: metric,
		On:     on,
	}, nil
}
