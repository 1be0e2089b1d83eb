package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// Overview is one line of a schema overview: column position, name and
// inferred or declared type.
type Overview struct {
	Index int
	Name  string
	Type  string
}

// OverviewTable renders a field overview as an ASCII table, the --format
// table alternative to the indented plain listing.
func OverviewTable(w io.Writer, fields []Overview) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Column", "Type"})
	for _, f := range fields {
		table.Append([]string{Count(int64(f.Index)), f.Name, f.Type})
	}
	table.Render()
}
