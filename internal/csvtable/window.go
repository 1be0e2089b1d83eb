package csvtable

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/adowlingnz/file-analyser-utils/internal/report"
	"github.com/adowlingnz/file-analyser-utils/internal/scan"
)

// Top prints the describe summary, then the first count records. With raw,
// records display as the file's physical lines instead of JSON objects.
func (t *Table) Top(w io.Writer, count int, format string, raw bool) error {
	return t.showRecords(w, count, false, format, raw)
}

// Tail prints the describe summary, then the last count records.
func (t *Table) Tail(w io.Writer, count int, format string, raw bool) error {
	return t.showRecords(w, count, true, format, raw)
}

func (t *Table) showRecords(w io.Writer, count int, tail bool, format string, raw bool) error {
	t.Describe(w, format)

	rows := len(t.Rows)
	if count > rows {
		count = rows
	}
	start := 0
	word := "first"
	if tail {
		start = rows - count
		word = "last"
	}
	fmt.Fprintf(w, "\nDisplaying %s %d record(s):\n\n", word, count)

	if raw {
		return t.printRawRows(w, int64(start+1), int64(start+count), -1)
	}
	for i := start; i < start+count; i++ {
		fmt.Fprintf(w, "Row %s: %s\n", report.Count(int64(i+1)), rowJSON(t.Headers, t.Rows[i]))
	}
	return nil
}

// RowContext prints the describe summary, then the rows around rowNumber
// with the target row framed by blank lines. rowNumber is clamped to the
// data range; context rows fall off at the file edges.
func (t *Table) RowContext(w io.Writer, rowNumber, context int, format string, raw bool) error {
	t.Describe(w, format)

	rows := len(t.Rows)
	if rowNumber > rows {
		rowNumber = rows
	}
	if rowNumber < 1 {
		rowNumber = 1
	}
	start := rowNumber - context - 1
	if start < 0 {
		start = 0
	}
	end := rowNumber + context
	if end > rows {
		end = rows
	}
	fmt.Fprintf(w, "\nDisplaying rows %s to %s (row %s highlighted):\n\n",
		report.Count(int64(start+1)), report.Count(int64(end)), report.Count(int64(rowNumber)))

	if raw {
		return t.printRawRows(w, int64(start+1), int64(end), int64(rowNumber))
	}
	for i := start; i < end; i++ {
		n := i + 1
		if n == rowNumber {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Row %s: %s\n", report.Count(int64(n)), rowJSON(t.Headers, t.Rows[i]))
		if n == rowNumber {
			fmt.Fprintln(w)
		}
	}
	return nil
}

// stopScan aborts a line scan early once the window has been printed.
var stopScan = errors.New("stop scan")

// printRawRows prints data rows first..last (1-based) as raw physical
// lines. Data row n is physical line n+1, after the header. highlight, when
// positive, frames that data row with blank lines.
func (t *Table) printRawRows(w io.Writer, first, last, highlight int64) error {
	f, err := scan.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = scan.ForEachLine(f, func(n int64, line []byte) error {
		dataRow := n - 1 // line 1 is the header
		if dataRow < first {
			return nil
		}
		if dataRow > last {
			return stopScan
		}
		if dataRow == highlight {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Row %s: %s\n", report.Count(dataRow), strings.TrimRight(string(line), " \t\r"))
		if dataRow == highlight {
			fmt.Fprintln(w)
		}
		return nil
	})
	if err != nil && !errors.Is(err, stopScan) {
		return err
	}
	return nil
}
