// Package renderer formats ledger data as markdown reports.
package renderer

import (
	"fmt"
	"strings"
)

// builder wraps strings.Builder with a Printf helper shared by all reports.
type builder struct {
	*strings.Builder
}

func newBuilder() builder { return builder{Builder: &strings.Builder{}} }

// Printf formats according to a format specifier and writes to the report.
func (b builder) Printf(format string, args ...any) {
	fmt.Fprintf(b, format, args...)
}

// short returns the first 12 characters of a digest, enough to eyeball.
func short(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}
