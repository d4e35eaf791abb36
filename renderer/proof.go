package renderer

import (
	"github.com/intcap/intcap"
)

// ProofMarkdown renders a capital proof with its entry references.
func ProofMarkdown(p intcap.CapitalProof) string {
	b := newBuilder()
	b.Printf("# Capital Proof %s\n\n", p.ID)
	b.Printf("| | |\n|:---|:---|\n")
	b.Printf("| Asset | %s |\n", p.Asset)
	b.Printf("| As of | %s |\n", p.AsOf)
	b.Printf("| State | %s |\n", p.State)
	b.Printf("| Book value | %s |\n", p.Figure)
	if p.Prev != "" {
		b.Printf("| Previous proof | %s |\n", short(p.Prev))
	}
	b.Printf("| Hash | %s |\n", p.Hash)
	b.Printf("\n## Referenced entries\n\n")
	b.Printf("| Seq | Digest |\n|---:|:---|\n")
	for _, ref := range p.Refs {
		b.Printf("| %d | %s |\n", ref.Seq, short(ref.Digest))
	}
	return b.String()
}
