package renderer

import (
	"github.com/intcap/intcap"
)

// JournalMarkdown renders the derived double-entry journal for a period,
// one row per posting line, followed by the balanced totals.
func JournalMarkdown(batch intcap.JournalBatch) string {
	b := newBuilder()
	b.Printf("# Journal %s\n\n", batch.Period.Identifier())
	if len(batch.Entries) == 0 {
		b.Printf("No entry in %s.\n", batch.Period)
		return b.String()
	}
	b.Printf("| Seq | Date | Kind | Account | Debit | Credit |\n")
	b.Printf("|---:|:---|:---|:---|---:|---:|\n")
	for _, j := range batch.Entries {
		for _, ln := range j.Lines {
			debit, credit := "", ""
			if ln.Side == intcap.Debit {
				debit = ln.Amount.String()
			} else {
				credit = ln.Amount.String()
			}
			b.Printf("| %d | %s | %s | %s | %s | %s |\n", j.Seq, j.On, j.Kind, ln.Account, debit, credit)
		}
	}
	b.Printf("\n**Totals**: %s debited, %s credited.\n", batch.Debits, batch.Credits)
	return b.String()
}
