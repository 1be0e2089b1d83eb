package parquetfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"github.com/zeebo/xxh3"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

// rowBatchSize is the number of rows decoded per ReadRows call.
const rowBatchSize = 128

// stopScan aborts a row scan early once a window has been printed.
var stopScan = errors.New("stop scan")

// forEachRow streams rows in order starting at the 0-based row index
// start, calling fn with 1-based row numbers. Row groups wholly before
// start are skipped via the metadata; the first relevant group seeks.
// fn returning stopScan ends the scan cleanly.
func (f *File) forEachRow(start int64, fn func(n int64, row parquet.Row) error) error {
	buf := make([]parquet.Row, rowBatchSize)
	var offset int64
	for _, rg := range f.pf.RowGroups() {
		groupRows := rg.NumRows()
		if offset+groupRows <= start {
			offset += groupRows
			continue
		}

		rows := rg.Rows()
		next := offset
		if start > offset {
			if err := rows.SeekToRow(start - offset); err != nil {
				rows.Close()
				return errors.Wrapf(err, "seek to row %d in %s", start, f.Path)
			}
			next = start
		}
		for {
			n, err := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				if cbErr := fn(next+int64(i)+1, buf[i]); cbErr != nil {
					rows.Close()
					if errors.Is(cbErr, stopScan) {
						return nil
					}
					return cbErr
				}
			}
			next += int64(n)
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return errors.Mark(errors.Wrapf(err, "read rows from %s", f.Path), errs.ErrDecode)
			}
		}
		rows.Close()
		offset += groupRows
	}
	return nil
}

// goValue converts a parquet value to its Go representation for JSON
// rendering and comparisons.
func goValue(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return v.Float()
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

// rowValues maps a row's leaf values onto the schema columns. Repeated
// values keep the first occurrence; columns without a value stay nil.
func (f *File) rowValues(row parquet.Row) []any {
	out := make([]any, len(f.cols))
	seen := make([]bool, len(f.cols))
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(out) || seen[c] {
			continue
		}
		out[c] = goValue(v)
		seen[c] = true
	}
	return out
}

// rowJSON renders a row as an ordered JSON object keyed by column name.
func (f *File) rowJSON(row parquet.Row) string {
	vals := f.rowValues(row)
	var r report.Row
	for i, c := range f.cols {
		r.Set(c.Name, vals[i])
	}
	return r.String()
}

// hashKey digests rendered values joined with a unit separator. Nulls
// encode as a NUL byte so they stay distinct from the string "null".
func hashKey(vals []any) uint64 {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v == nil {
			b.WriteByte(0x00)
		} else {
			fmt.Fprint(&b, v)
		}
	}
	return xxh3.HashString(b.String())
}
