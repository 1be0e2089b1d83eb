package parquetfile

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

// ParseCriteria parses a JSON object of column/value pairs. Anything that
// is not a JSON object reports false.
func ParseCriteria(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// Find streams every row and prints those whose columns match criteria:
// null against null, booleans against booleans, numbers numerically and
// strings exactly. Column names resolve forgivingly.
func (f *File) Find(w io.Writer, criteria map[string]any, format string, progressOn bool) error {
	f.Describe(w, format)
	fmt.Fprintf(w, "\nSearching for rows where %s...\n\n", renderCriteria(criteria))

	type check struct {
		col  int
		want any
	}
	checks := make([]check, 0, len(criteria))
	for name, want := range criteria {
		col, ok := f.resolveColumn(name)
		if !ok {
			return errs.InvalidArgumentf("column %q not found (columns: %s)",
				name, strings.Join(f.columnNames(), ", "))
		}
		checks = append(checks, check{col: col, want: want})
	}

	total := f.NumRows()
	progress := report.NewProgress(w, total, "searched", progressOn)
	var matches int64
	err := f.forEachRow(0, func(n int64, row parquet.Row) error {
		vals := f.rowValues(row)
		matched := true
		for _, c := range checks {
			if !valueMatches(vals[c.col], c.want) {
				matched = false
				break
			}
		}
		if matched {
			matches++
			fmt.Fprintf(w, "Row %s: %s\n\n", report.Count(n), f.rowJSON(row))
		}
		progress.Step(n)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	if matches == 0 {
		fmt.Fprintf(w, "No matching rows found.\n")
	} else {
		fmt.Fprintf(w, "\nFound %s matching row(s).\n", report.Count(matches))
	}
	return nil
}

// valueMatches compares a rendered column value against a JSON criteria
// value.
func valueMatches(v any, want any) bool {
	switch want := want.(type) {
	case nil:
		return v == nil
	case bool:
		got, ok := v.(bool)
		return ok && got == want
	case float64:
		switch got := v.(type) {
		case int32:
			return float64(got) == want
		case int64:
			return float64(got) == want
		case float32:
			return float64(got) == want
		case float64:
			return got == want
		}
		return false
	case string:
		got, ok := v.(string)
		return ok && got == want
	}
	return false
}

// renderCriteria formats the criteria as compact JSON with sorted keys.
func renderCriteria(criteria map[string]any) string {
	out, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Sprint(criteria)
	}
	return string(out)
}
