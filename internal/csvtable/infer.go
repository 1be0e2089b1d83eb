package csvtable

import (
	"strconv"
	"strings"
	"time"

	"github.com/adowlingnz/file-analyser-utils/internal/fieldname"
)

// inferTypes returns one inferred type per column based on the loaded rows:
// text, integer, real, boolean, date or timestamp.
func inferTypes(columns int, rows [][]string) []string {
	cols := make([][]string, columns)
	for _, row := range rows {
		for i := 0; i < columns && i < len(row); i++ {
			cols[i] = append(cols[i], row[i])
		}
	}
	types := make([]string, columns)
	for i := 0; i < columns; i++ {
		types[i] = inferColumnType(cols[i])
	}
	return types
}

// inferColumnType guesses the narrowest type every non-empty value in the
// column satisfies. All-empty columns stay text.
func inferColumnType(values []string) string {
	nonEmpty := nonEmptyTrimmed(values)
	if len(nonEmpty) == 0 {
		return "text"
	}
	if allMatch(nonEmpty, isInt) {
		return "integer"
	}
	if allMatch(nonEmpty, isBool) {
		return "boolean"
	}
	if allMatch(nonEmpty, isFloat) {
		return "real"
	}
	// Dates and timestamps (prefer timestamp when any time component exists).
	allDate := true
	anyTime := false
	for _, v := range nonEmpty {
		ok, hasTime := parseDateOrTimestamp(v)
		if !ok {
			allDate = false
			break
		}
		if hasTime {
			anyTime = true
		}
	}
	if allDate {
		if anyTime {
			return "timestamp"
		}
		return "date"
	}
	return "text"
}

// nonEmptyTrimmed returns the non-empty, trimmed values.
func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// allMatch reports whether every value satisfies fn.
func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

// isBool accepts common textual booleans and 1/0.
func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "t", "f", "yes", "no", "y", "n", "1", "0":
		return true
	default:
		return false
	}
}

// isInt requires a signed base-10 integer that fits in int64.
func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// isFloat accepts decimal or scientific notation floats. Integers parse
// too; the integer check runs first, so a column reaching this point has at
// least one non-integer value and mixed numeric columns stay real.
func isFloat(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// parseDateOrTimestamp tries s as a timestamp first, then a date. ok is
// true when a layout matched; hasTime reports a time component.
func parseDateOrTimestamp(s string) (ok bool, hasTime bool) {
	st := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, st); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, st); err == nil {
			return true, false
		}
	}
	return false, false
}

// dateLayouts are common date formats (no time component).
var dateLayouts = []string{
	"2006-01-02",  // ISO
	"02.01.2006",  // DMY dot
	"01.02.2006",  // MDY dot
	"02/01/2006",  // DMY slash
	"01/02/2006",  // MDY slash
	"2 Jan 2006",  // DMY textual day
	"02-Jan-2006", // DMY dash textual month
	"2006/01/02",  // ISO slashy
	"20060102",    // basic ISO
}

// timestampLayouts are common timestamp formats (with time component).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05", // DMY
	"01/02/2006 15:04:05", // MDY
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 -0700",
}

// resolveColumn maps a user-supplied column name to its index: exact match
// first, then case- and accent-insensitively.
func (t *Table) resolveColumn(name string) (int, bool) {
	return fieldname.Resolve(t.Headers, name)
}
