package icae

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/intcap/intcap"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportJournal writes a derived journal batch for downstream accounting
// systems, one record per posting line.
func ExportJournal(w io.Writer, batch intcap.JournalBatch, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		for _, j := range batch.Entries {
			if err := enc.Encode(j); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"seq", "date", "kind", "account", "side", "amount", "currency"}); err != nil {
			return err
		}
		for _, j := range batch.Entries {
			for _, ln := range j.Lines {
				record := []string{
					fmt.Sprint(j.Seq),
					j.On.String(),
					j.Kind,
					string(ln.Account),
					string(ln.Side),
					ln.Amount.Amount().String(),
					ln.Amount.Currency(),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: unknown export format %q", intcap.ErrValidation, format)
	}
}

// ExportProofs writes capital proofs, one JSON line per proof.
func ExportProofs(w io.Writer, proofs []intcap.CapitalProof) error {
	enc := json.NewEncoder(w)
	for _, p := range proofs {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// ExportAuditTrail writes every ledger entry as one JSON line, digests
// included, for external audit tooling.
func ExportAuditTrail(w io.Writer, l *intcap.Ledger) error {
	for _, e := range l.Entries(0, 0) {
		if err := intcap.EncodeEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}
