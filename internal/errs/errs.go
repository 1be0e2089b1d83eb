// Package errs defines the error taxonomy shared by the analyser commands.
//
// Errors fall into four classes: ErrNotFound (the input path does not
// exist), ErrDecode (the input cannot be read as text), ErrMalformedLine (a
// single line failed to decode mid-stream; recovered by streaming analysis,
// fatal only to strict readers), and ErrInvalidArgument (bad options,
// rejected before any file I/O). Classes are attached to concrete errors
// with errors.Mark and recovered with errors.Is, so wrapping along the way
// never loses the classification.
package errs

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
)

// Sentinel classes. Compare with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrDecode          = errors.New("decode error")
	ErrMalformedLine   = errors.New("malformed line")
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundf builds an ErrNotFound-classified error.
func NotFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// Decodef builds an ErrDecode-classified error.
func Decodef(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrDecode)
}

// Malformedf builds an ErrMalformedLine-classified error.
func Malformedf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedLine)
}

// InvalidArgumentf builds an ErrInvalidArgument-classified error.
func InvalidArgumentf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidArgument)
}

// FromOpen classifies an os.Open failure: a missing path is ErrNotFound,
// everything else (permissions, directories, ...) is ErrDecode. The original
// message is kept; it already names the path and condition in one line.
func FromOpen(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Mark(err, ErrNotFound)
	}
	return errors.Mark(err, ErrDecode)
}

// Open opens path for reading with classified errors.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FromOpen(err)
	}
	return f, nil
}

// ExitCode maps an error to the process exit status: 0 for nil, 2 for
// argument errors (raised before any file I/O), 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument):
		return 2
	default:
		return 1
	}
}
