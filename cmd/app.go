// Package cmd implements the CLI application to manage an intelligence
// capital ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/intcap/intcap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&capitalizeCmd{}, "events")
	c.Register(&allocateCmd{}, "events")
	c.Register(&utilizeCmd{}, "events")
	c.Register(&closeCmd{}, "events")
	c.Register(&retireCmd{}, "events")
	c.Register(&reconcileCmd{}, "events")

	c.Register(&logCmd{}, "reports")
	c.Register(&assetsCmd{}, "reports")
	c.Register(&journalCmd{}, "reports")
	c.Register(&proveCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&verifyCmd{}, "integrity")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file (JSONL format)")
var defaultCurrency = flag.String("currency", "EUR", "Currency of a newly created ledger")

// DecodeLedger loads the app ledger file, verifying its hash chain.
func DecodeLedger() (l *intcap.Ledger, err error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, starting an empty ledger instead")
		return intcap.NewLedger(*defaultCurrency), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return intcap.DecodeLedger(f)
}

// EncodeLedger writes the full ledger back to the app ledger file. The
// write goes through a temporary file and a rename, so a crash never
// leaves a half-written ledger behind.
func EncodeLedger(l *intcap.Ledger) error {
	tmp := *ledgerFile + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := intcap.EncodeLedger(f, l); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, *ledgerFile)
}

// appendAndSave appends one event and persists the ledger, printing the
// sealed entry.
func appendAndSave(ev func(lc intcap.Lifecycle) (intcap.Entry, error)) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	entry, err := ev(intcap.Lifecycle{Ledger: ledger})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Appended entry %d (%s) to %s\n", entry.Seq, entry.Event.Kind(), *ledgerFile)
	return subcommands.ExitSuccess
}
