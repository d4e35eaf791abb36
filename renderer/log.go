package renderer

import (
	"github.com/intcap/intcap"
)

// LogMarkdown renders a chronological table of ledger entries.
func LogMarkdown(title string, entries []intcap.Entry) string {
	b := newBuilder()
	b.Printf("# %s\n\n", title)
	if len(entries) == 0 {
		b.Printf("The ledger is empty.\n")
		return b.String()
	}
	b.Printf("| Seq | Date | Kind | Asset | Δ Book | Book After | Digest |\n")
	b.Printf("|---:|:---|:---|:---|---:|---:|:---|\n")
	for _, e := range entries {
		b.Printf("| %d | %s | %s | %s | %s | %s | %s |\n",
			e.Seq,
			e.Event.When(),
			e.Event.Kind(),
			short(e.Event.Asset().String()),
			e.Event.Delta().SignedString(),
			e.Balance,
			short(e.Digest),
		)
	}
	return b.String()
}
