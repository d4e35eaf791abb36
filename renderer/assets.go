package renderer

import (
	"github.com/intcap/intcap"
)

// AssetsMarkdown renders the current state of every asset.
func AssetsMarkdown(assets []intcap.IntelligenceAsset) string {
	b := newBuilder()
	b.Printf("# Intelligence Assets\n\n")
	if len(assets) == 0 {
		b.Printf("No asset capitalized yet.\n")
		return b.String()
	}
	b.Printf("| Asset | Unit | Capitalized | State | Initial | Book | Allocated | Utilized |\n")
	b.Printf("|:---|:---|:---|:---|---:|---:|---:|---:|\n")
	for _, a := range assets {
		b.Printf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			a.ID, a.Unit, a.CapitalizedOn, a.State, a.InitialValue, a.BookValue, a.Allocated, a.Utilized)
	}
	return b.String()
}
