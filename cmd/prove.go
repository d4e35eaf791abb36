package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/intcap/intcap"
	"github.com/intcap/intcap/renderer"
)

type proveCmd struct {
	date  string
	asset string
}

func (*proveCmd) Name() string { return "prove" }
func (*proveCmd) Synopsis() string {
	return "issue a verifiable capital proof for an asset"
}
func (*proveCmd) Usage() string {
	return `icl prove -asset <id> [-d <date>]

  Issues a proof of the asset's book value as of the date, referencing
  every contributing entry by sequence and digest. Proofs chain per
  asset; the chain is kept next to the ledger file and survives restarts.
`
}

func (c *proveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Proof date (defaults to today).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier.")
}

// proofsFile is the per-ledger proof chain file.
func proofsFile() string { return *ledgerFile + ".proofs" }

// loadProofs restores the proof chains recorded next to the ledger.
func loadProofs(ledger *intcap.Ledger) error {
	f, err := os.Open(proofsFile())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var p intcap.CapitalProof
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			return err
		}
		if err := ledger.AdoptProof(p); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (c *proveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asset, err := uuid.Parse(c.asset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid asset id %q: %v\n", c.asset, err)
		return subcommands.ExitUsageError
	}
	asOf, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := loadProofs(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading proof chain: %v\n", err)
		return subcommands.ExitFailure
	}

	proof, err := intcap.Prove(ledger, asset, asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// append the new proof to the chain file
	pf, err := os.OpenFile(proofsFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer pf.Close()
	raw, err := json.Marshal(proof)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := fmt.Fprintf(pf, "%s\n", raw); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ProofMarkdown(proof))
	return subcommands.ExitSuccess
}
