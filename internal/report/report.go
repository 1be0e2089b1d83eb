// Package report renders the analysers' stdout output: the startup banner,
// thousands-separated counts, ordered row objects, progress lines and the
// optional table layout for schema overviews.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Count renders n with thousands separators ("1,234,567").
func Count(n int64) string {
	return humanize.Comma(n)
}

// Banner prints the startup header shared by both analysers. Option lines
// follow the mode line, one per entry.
func Banner(w io.Writer, tool, version, file, mode string, options ...string) {
	fmt.Fprintf(w, "%s v%s starting...\n", tool, version)
	fmt.Fprintf(w, "\nRuntime Configuration:\n")
	fmt.Fprintf(w, "  File: %s\n", file)
	fmt.Fprintf(w, "  Mode: %s\n", mode)
	for _, opt := range options {
		fmt.Fprintf(w, "  Option: %s\n", opt)
	}
	fmt.Fprintln(w)
}

// Timing prints the closing processing-time line.
func Timing(w io.Writer, elapsed time.Duration) {
	fmt.Fprintf(w, "\nProcessing time: %.2f seconds\n", elapsed.Seconds())
}
