// Package csvtable implements the quote-aware table operations of the CSV
// analyser: describe, record windows, find and compare. Files here are
// parsed with encoding/csv; the pure delimiter split that drives the
// consistency analysis lives in internal/scan.
package csvtable

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adowlingnz/file-analyser-utils/internal/report"
	"github.com/adowlingnz/file-analyser-utils/internal/scan"
)

// Cap on per-row skip diagnostics so a structurally broken file cannot
// flood the log.
const skipLogLimit = 400

// Table is a CSV file loaded for inspection: the header row plus every data
// row that parsed cleanly at the header's width.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// Load reads the file at path into a Table. The reader is forgiving:
// LazyQuotes, leading space trimmed, variable field counts allowed. Rows
// that fail to parse or do not match the header width are skipped with a
// capped warning instead of failing the load.
func Load(path string, delim rune, log *logrus.Logger) (*Table, error) {
	if log == nil {
		log = logrus.New()
	}
	if delim == 0 {
		delim = ','
	}

	f, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // width is enforced against the header below

	t := &Table{Path: path}

	// Header: skip unusable lines until one parses or the file ends.
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		t.Headers = stripUTF8BOM(rec)
		break
	}

	want := len(t.Headers)
	var rowNum, skipped int
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			skipped++
			logSkip(log, skipped, "Skipping row %d: %v", rowNum, err)
			continue
		}
		if len(rec) != want {
			skipped++
			logSkip(log, skipped, "Skipping row %d: incorrect number of fields (expected %d, got %d)",
				rowNum, want, len(rec))
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if skipped > 0 {
		log.Warnf("Skipped %d row(s) while loading %s", skipped, path)
	}
	return t, nil
}

func logSkip(log *logrus.Logger, skipped int, format string, args ...any) {
	if skipped <= skipLogLimit {
		log.Warnf(format, args...)
		return
	}
	if skipped == skipLogLimit+1 {
		log.Warnf("Skip limit of %d reached; suppressing further row warnings", skipLogLimit)
	}
}

// stripUTF8BOM removes a UTF-8 BOM from the first header field if present.
func stripUTF8BOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], "﻿")
	return headers
}

// rowJSON renders a data row as an ordered JSON object keyed by the header.
// Cells beyond the row's width render as null.
func rowJSON(headers []string, cells []string) string {
	var row report.Row
	for i, h := range headers {
		if i < len(cells) {
			row.Set(h, cells[i])
		} else {
			row.Set(h, nil)
		}
	}
	return row.String()
}
