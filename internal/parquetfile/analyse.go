package parquetfile

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

// sparseRowPreview caps how many sparse row numbers are listed.
const sparseRowPreview = 10

// AnalyseOptions control the optional blocks of the analysis report.
type AnalyseOptions struct {
	// PrintMalformedRows lists the numbers of rows with null fields.
	PrintMalformedRows bool
	// PrintMalformedData prints those rows' data as well.
	PrintMalformedData bool
	// CheckDuplicates keys rows on their first N column values when > 0.
	CheckDuplicates int
	// Progress enables the carriage-return progress line.
	Progress bool
	// Format selects the describe overview rendering.
	Format string
}

// dupBucket collects the rows sharing one duplicate-check key.
type dupBucket struct {
	display string
	rows    []int64
}

// Analyse streams every row once and reports the non-null field count
// summary, sparse rows, per-column null percentages and the optional
// malformed and duplicate blocks.
func (f *File) Analyse(w io.Writer, opts AnalyseOptions) error {
	f.Describe(w, opts.Format)
	fmt.Fprintf(w, "Analysing Parquet file...\n\n")

	total := f.NumRows()
	cols := len(f.cols)
	keyWidth := opts.CheckDuplicates
	if keyWidth > cols {
		keyWidth = cols
	}

	nonNullSummary := map[int]int64{}
	nullCounts := make([]int64, cols)
	var sparseRows, malformedRows []int64
	var malformedData []string
	buckets := map[uint64]*dupBucket{}
	var bucketOrder []uint64

	progress := report.NewProgress(w, total, "analysed", opts.Progress)
	err := f.forEachRow(0, func(n int64, row parquet.Row) error {
		vals := f.rowValues(row)
		nonNull := 0
		for i, v := range vals {
			if v == nil {
				nullCounts[i]++
			} else {
				nonNull++
			}
		}
		nonNullSummary[nonNull]++

		if nonNull != cols {
			malformedRows = append(malformedRows, n)
			if opts.PrintMalformedData {
				malformedData = append(malformedData, f.rowJSON(row))
			}
		}
		if float64(nonNull) < float64(cols)*0.5 {
			sparseRows = append(sparseRows, n)
		}
		if keyWidth > 0 {
			h := hashKey(vals[:keyWidth])
			b := buckets[h]
			if b == nil {
				b = &dupBucket{display: displayKey(vals[:keyWidth])}
				buckets[h] = b
				bucketOrder = append(bucketOrder, h)
			}
			b.rows = append(b.rows, n)
		}

		progress.Step(n)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n\nNon-Null Field Count Summary:\n")
	counts := make([]int, 0, len(nonNullSummary))
	for c := range nonNullSummary {
		counts = append(counts, c)
	}
	sort.Ints(counts)
	for _, c := range counts {
		fmt.Fprintf(w, "  %s row(s) with %s non-null field(s)\n",
			report.Count(nonNullSummary[c]), report.Count(int64(c)))
	}

	if len(sparseRows) > 0 {
		fmt.Fprintf(w, "\n %s row(s) have <50%% non-null fields:\n",
			report.Count(int64(len(sparseRows))))
		preview := sparseRows
		if len(preview) > sparseRowPreview {
			preview = preview[:sparseRowPreview]
		}
		fmt.Fprintf(w, "    %s", joinRows(preview))
		if len(sparseRows) > sparseRowPreview {
			fmt.Fprintf(w, " ...\n")
		} else {
			fmt.Fprintln(w)
		}
	} else {
		fmt.Fprintf(w, "\nAll rows have at least 50%% of fields populated.\n")
	}

	fmt.Fprintf(w, "\nColumn Null Percentage:\n")
	for i, c := range f.cols {
		percent := 0.0
		if total > 0 {
			percent = float64(nullCounts[i]) / float64(total) * 100
		}
		fmt.Fprintf(w, "  %-30s: %6.2f%% null\n", c.Name, percent)
	}

	if opts.PrintMalformedRows && len(malformedRows) > 0 {
		fmt.Fprintf(w, "\nMalformed row numbers (%d):\n", len(malformedRows))
		fmt.Fprintf(w, "%s\n", joinRows(malformedRows))
	}
	if opts.PrintMalformedData && len(malformedData) > 0 {
		fmt.Fprintf(w, "\nMalformed row data (%d):\n", len(malformedData))
		for i, data := range malformedData {
			fmt.Fprintf(w, "Row %d: %s\n", malformedRows[i], data)
		}
	}

	if keyWidth > 0 {
		var dups []*dupBucket
		for _, h := range bucketOrder {
			if len(buckets[h].rows) > 1 {
				dups = append(dups, buckets[h])
			}
		}
		if len(dups) > 0 {
			fmt.Fprintf(w, "\nDuplicate rows found based on first %d columns:\n", opts.CheckDuplicates)
			for _, b := range dups {
				fmt.Fprintf(w, "  Key %s: rows %s\n", b.display, joinRows(b.rows))
			}
		} else {
			fmt.Fprintf(w, "\nNo duplicate rows found based on first %d columns.\n", opts.CheckDuplicates)
		}
	}

	fmt.Fprintf(w, "\nAnalysis complete.\n")
	return nil
}

// displayKey renders duplicate-check key values for the report.
func displayKey(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		if v == nil {
			parts[i] = "null"
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// joinRows renders row numbers as a comma-separated list.
func joinRows(rows []int64) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.FormatInt(r, 10)
	}
	return strings.Join(parts, ", ")
}
