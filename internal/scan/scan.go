// Package scan implements the streaming core of the CSV analyser: line
// counting and field-count consistency analysis in a single forward pass
// with bounded memory.
//
// Splitting here is purely delimiter-based: a delimiter inside a quoted
// value still separates fields. The quote-aware table operations live in
// internal/csvtable.
package scan

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
)

// Reader buffer for sequential scans. Lines longer than this are handled
// via the carry buffer in ForEachLine.
const readBufSize = 1 << 20 // 1 MiB

// DefaultMismatchCap bounds the recorded mismatch list when
// Options.MismatchCap is zero. Counting continues past the cap.
const DefaultMismatchCap = 50000

// Options configure a field-consistency analysis. The zero value gets the
// documented defaults.
type Options struct {
	// Delimiter splits each line into fields. When zero, ',' is used.
	Delimiter rune

	// SkipHeader discards the first line from analysis while still counting
	// it toward the total.
	SkipHeader bool

	// MismatchCap bounds the recorded mismatch list; zero means
	// DefaultMismatchCap. Counting continues past the cap, only recording
	// stops.
	MismatchCap int
}

// Mismatch records one line whose field count differed from the baseline.
// Fields is 0 when the line could not be decoded as text (a delimiter split
// always yields at least one field, so 0 is unambiguous).
type Mismatch struct {
	Line   int64
	Fields int
}

// Result accumulates one analysis run. It is created at the start of a run,
// mutated once per line, and discarded after printing.
type Result struct {
	TotalLines        int64
	ConsistentLines   int64
	InconsistentLines int64

	// Baseline is the reference field count, valid only when BaselineSet.
	Baseline    int
	BaselineSet bool

	// FieldCounts tallies lines per observed field count. Undecodable lines
	// land in bucket 0.
	FieldCounts map[int]int64

	// Mismatches lists inconsistent lines in file order, capped. Truncated
	// reports whether the cap cut the list short.
	Mismatches []Mismatch
	Truncated  bool
}

func (r *Result) record(m Mismatch, limit int) {
	if len(r.Mismatches) < limit {
		r.Mismatches = append(r.Mismatches, m)
		return
	}
	r.Truncated = true
}

// Open opens path for a sequential scan: classified errors plus best-effort
// kernel read-ahead hints.
func Open(path string) (*os.File, error) {
	f, err := errs.Open(path)
	if err != nil {
		return nil, err
	}
	advise(f)
	return f, nil
}

// ForEachLine streams r line by line, calling fn with the 1-based line
// number and the line without its trailing '\n'. A trailing '\r' is kept: fn
// sees the physical bytes of the line. Lines longer than the internal buffer
// accumulate in a carry buffer; a final line without a trailing newline is
// delivered like any other. The slice passed to fn is only valid during the
// call. A non-nil error from fn stops the stream and is returned as-is.
func ForEachLine(r io.Reader, fn func(n int64, line []byte) error) error {
	br := bufio.NewReaderSize(r, readBufSize)
	var carry []byte
	var n int64
	for {
		chunk, err := br.ReadSlice('\n')
		if err == io.EOF {
			// Final unterminated line, if any.
			if len(chunk) > 0 {
				n++
				return fn(n, stripNL(append(carry, chunk...)))
			}
			if len(carry) > 0 {
				n++
				return fn(n, carry)
			}
			return nil
		}
		if err != nil && err != bufio.ErrBufferFull {
			return err
		}
		if err == bufio.ErrBufferFull {
			// Buffer filled before a newline; stash and keep reading.
			carry = append(carry, chunk...)
			continue
		}
		n++
		if len(carry) > 0 {
			carry = append(carry, chunk...)
			if err := fn(n, stripNL(carry)); err != nil {
				return err
			}
			carry = carry[:0]
			continue
		}
		if err := fn(n, stripNL(chunk)); err != nil {
			return err
		}
	}
}

// stripNL removes a trailing '\n' and returns a subslice aliasing b.
func stripNL(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}

// CountLines returns the number of lines in the file at path, counting a
// final unterminated line exactly once so that "a\nb" and "a\nb\n" agree.
// Counting is strict about text: the first line that is not valid UTF-8
// fails the whole count with a decode error, unlike Analyse which recovers
// per line.
func CountLines(path string) (int64, error) {
	f, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total int64
	err = ForEachLine(f, func(n int64, line []byte) error {
		if !utf8.Valid(line) {
			return errors.Mark(errs.Malformedf("line %d is not valid UTF-8", n), errs.ErrDecode)
		}
		total = n
		return nil
	})
	if err != nil {
		if !errors.Is(err, errs.ErrDecode) {
			err = errors.Mark(err, errs.ErrDecode)
		}
		return 0, err
	}
	return total, nil
}

// Analyse streams the file at path once and reports field-count consistency
// against a baseline taken from the first analysed line that decodes as
// UTF-8. Undecodable lines are recorded as mismatches with an observed count
// of 0 and never abort the run. The result satisfies
//
//	TotalLines == ConsistentLines + InconsistentLines + skipped header
//
// where the skipped header contributes 1 only when SkipHeader is set and the
// file is non-empty.
func Analyse(path string, opt Options) (*Result, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	limit := opt.MismatchCap
	if limit <= 0 {
		limit = DefaultMismatchCap
	}

	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sep := []byte(string(delim))
	res := &Result{FieldCounts: make(map[int]int64)}

	err = ForEachLine(f, func(n int64, line []byte) error {
		res.TotalLines = n
		if opt.SkipHeader && n == 1 {
			return nil
		}
		if !utf8.Valid(line) {
			res.InconsistentLines++
			res.FieldCounts[0]++
			res.record(Mismatch{Line: n, Fields: 0}, limit)
			return nil
		}

		// Separator count + 1 == field count of the delimiter split.
		fields := bytes.Count(line, sep) + 1
		res.FieldCounts[fields]++

		if !res.BaselineSet {
			res.Baseline = fields
			res.BaselineSet = true
			res.ConsistentLines++ // the baseline line counts as consistent
			return nil
		}
		if fields == res.Baseline {
			res.ConsistentLines++
			return nil
		}
		res.InconsistentLines++
		res.record(Mismatch{Line: n, Fields: fields}, limit)
		return nil
	})
	if err != nil {
		if !errors.Is(err, errs.ErrDecode) {
			err = errors.Mark(err, errs.ErrDecode)
		}
		return nil, err
	}
	return res, nil
}
