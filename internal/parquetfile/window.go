package parquetfile

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

// Top prints the describe summary, then the first count records as
// ordered JSON objects.
func (f *File) Top(w io.Writer, count int64, format string) error {
	return f.showRecords(w, count, false, format)
}

// Tail prints the describe summary, then the last count records.
func (f *File) Tail(w io.Writer, count int64, format string) error {
	return f.showRecords(w, count, true, format)
}

func (f *File) showRecords(w io.Writer, count int64, tail bool, format string) error {
	f.Describe(w, format)

	rows := f.NumRows()
	if count > rows {
		count = rows
	}
	var start int64
	word := "first"
	if tail {
		start = rows - count
		word = "last"
	}
	fmt.Fprintf(w, "\nDisplaying %s %d record(s):\n\n", word, count)

	end := start + count
	return f.forEachRow(start, func(n int64, row parquet.Row) error {
		if n > end {
			return stopScan
		}
		fmt.Fprintf(w, "Row %d: %s\n", n, f.rowJSON(row))
		return nil
	})
}

// RowContext prints the describe summary, then the rows around rowNumber
// with the target row framed by blank lines. rowNumber is clamped to the
// data range; context rows fall off at the file edges.
func (f *File) RowContext(w io.Writer, rowNumber, context int64, format string) error {
	f.Describe(w, format)

	rows := f.NumRows()
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
		report.Count(start+1), report.Count(end), report.Count(rowNumber))

	return f.forEachRow(start, func(n int64, row parquet.Row) error {
		if n > end {
			return stopScan
		}
		if n == rowNumber {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Row %s: %s\n", report.Count(n), f.rowJSON(row))
		if n == rowNumber {
			fmt.Fprintln(w)
		}
		return nil
	})
}
