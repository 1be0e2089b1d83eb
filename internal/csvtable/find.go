package csvtable

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/report"
	"github.com/adowlingnz/file-analyser-utils/internal/scan"
)

// ParseCriteria parses a find argument as a JSON object of column/value
// conditions. ok is false when the argument is not a JSON object, in which
// case callers fall back to a raw substring search.
func ParseCriteria(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// Find prints every data row matching all column/value conditions. JSON
// numbers compare numerically against the cell, booleans via ParseBool,
// null matches the empty cell, strings compare exactly.
func (t *Table) Find(w io.Writer, criteria map[string]any) error {
	fmt.Fprintf(w, "\nSearching for rows where %s...\n\n", renderCriteria(criteria))

	type cond struct {
		idx  int
		want any
	}
	conds := make([]cond, 0, len(criteria))
	for col, want := range criteria {
		idx, ok := t.resolveColumn(col)
		if !ok {
			return errs.InvalidArgumentf("column %q not found (columns: %s)",
				col, strings.Join(t.Headers, ", "))
		}
		conds = append(conds, cond{idx, want})
	}

	var found int64
	for i, row := range t.Rows {
		match := true
		for _, c := range conds {
			var cell string
			if c.idx < len(row) {
				cell = row[c.idx]
			}
			if !cellMatches(cell, c.want) {
				match = false
				break
			}
		}
		if match {
			found++
			fmt.Fprintf(w, "Row %s: %s\n\n", report.Count(int64(i+1)), rowJSON(t.Headers, row))
		}
	}
	if found > 0 {
		fmt.Fprintf(w, "\nFound %s matching row(s).\n", report.Count(found))
	} else {
		fmt.Fprintf(w, "No matching rows found.\n")
	}
	return nil
}

// FindRaw searches the file's physical lines for substr, header line
// included, and prints each hit with its 1-based line number.
func FindRaw(w io.Writer, path, substr string) error {
	fmt.Fprintf(w, "\nSearching for raw string '%s' in %s...\n\n", substr, path)

	f, err := scan.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var found int64
	err = scan.ForEachLine(f, func(n int64, line []byte) error {
		if strings.Contains(string(line), substr) {
			found++
			fmt.Fprintf(w, "Row %s: %s\n\n", report.Count(n), strings.TrimRight(string(line), " \t\r"))
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "search %s", path)
	}
	if found > 0 {
		fmt.Fprintf(w, "\nFound %s matching row(s).\n", report.Count(found))
	} else {
		fmt.Fprintf(w, "No matching rows found.\n")
	}
	return nil
}

// cellMatches applies one typed condition to a cell.
func cellMatches(cell string, want any) bool {
	switch v := want.(type) {
	case nil:
		return strings.TrimSpace(cell) == ""
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(cell))
		return err == nil && b == v
	case float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		return err == nil && f == v
	case string:
		return cell == v
	default:
		return false
	}
}

// renderCriteria renders the conditions as compact JSON with stable
// (alphabetical) key order.
func renderCriteria(criteria map[string]any) string {
	b, err := json.Marshal(criteria)
	if err != nil {
		return "{}"
	}
	return string(b)
}
