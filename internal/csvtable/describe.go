package csvtable

import (
	"fmt"
	"io"

	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

// Describe prints the file summary and per-column type overview. format
// "table" renders the overview as an ASCII table; anything else uses the
// indented plain listing.
func (t *Table) Describe(w io.Writer, format string) {
	fmt.Fprintf(w, "Loading CSV file...\n\n")
	fmt.Fprintf(w, "  File: %s\n\n", t.Path)
	fmt.Fprintf(w, "  Columns: %d, Rows: %s\n", len(t.Headers), report.Count(int64(len(t.Rows))))
	fmt.Fprintf(w, "\n  Field Overview:\n\n")

	types := inferTypes(len(t.Headers), t.Rows)
	if format == "table" {
		report.OverviewTable(w, t.overview(types))
	} else {
		for i, h := range t.Headers {
			fmt.Fprintf(w, "    %d. %s (%s)\n", i+1, h, types[i])
		}
	}
	fmt.Fprintln(w)
}

func (t *Table) overview(types []string) []report.Overview {
	out := make([]report.Overview, len(t.Headers))
	for i, h := range t.Headers {
		out[i] = report.Overview{Index: i + 1, Name: h, Type: types[i]}
	}
	return out
}
