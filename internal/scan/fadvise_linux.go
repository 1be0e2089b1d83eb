//go:build linux

package scan

import (
	"os"

	"golang.org/x/sys/unix"
)

// advise tells the kernel the file will be read once, front to back.
// Best effort; errors are ignored.
func advise(f *os.File) {
	fd := int(f.Fd())
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_WILLNEED)
}
