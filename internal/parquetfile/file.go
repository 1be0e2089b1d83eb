// Package parquetfile implements the Parquet inspector operations:
// describe, analyse, record windows, find and compare. Files are read
// row by row through github.com/parquet-go/parquet-go. Schemas are
// treated as flat; leaf column order defines display order.
package parquetfile

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/fieldname"
)

// Column describes one schema field.
type Column struct {
	Name string
	Type string
}

// File is an open Parquet file ready for row iteration.
type File struct {
	Path string

	osFile *os.File
	pf     *parquet.File
	cols   []Column
}

// Open opens and validates the Parquet file at path.
func Open(path string) (*File, error) {
	f, err := errs.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		f.Close()
		return nil, errors.Mark(errors.Wrapf(err, "open parquet file %s", path), errs.ErrDecode)
	}

	out := &File{Path: path, osFile: f, pf: pf}
	for _, field := range pf.Schema().Fields() {
		out.cols = append(out.cols, Column{Name: field.Name(), Type: field.Type().String()})
	}
	return out, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error { return f.osFile.Close() }

// NumRows reports the row count from the file metadata.
func (f *File) NumRows() int64 { return f.pf.NumRows() }

// Columns lists the schema fields in declaration order.
func (f *File) Columns() []Column { return f.cols }

func (f *File) columnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// resolveColumn maps a user-supplied column name to its index: exact match
// first, then case- and accent-insensitively.
func (f *File) resolveColumn(name string) (int, bool) {
	return fieldname.Resolve(f.columnNames(), name)
}
