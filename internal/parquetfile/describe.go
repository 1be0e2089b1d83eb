package parquetfile

import (
	"fmt"
	"io"

	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

// Describe prints the schema summary and per-field overview. format
// "table" renders the overview as an ASCII table; anything else uses the
// indented plain listing.
func (f *File) Describe(w io.Writer, format string) {
	fmt.Fprintf(w, "Loading Parquet file...\n\n")
	fmt.Fprintf(w, "Schema: %d columns, %s rows\n", len(f.cols), report.Count(f.NumRows()))
	fmt.Fprintf(w, "\nField Overview:\n\n")

	if format == "table" {
		report.OverviewTable(w, f.overview())
	} else {
		for i, c := range f.cols {
			fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, c.Name, c.Type)
		}
	}
	fmt.Fprintln(w)
}

func (f *File) overview() []report.Overview {
	out := make([]report.Overview, len(f.cols))
	for i, c := range f.cols {
		out[i] = report.Overview{Index: i + 1, Name: c.Name, Type: c.Type}
	}
	return out
}
