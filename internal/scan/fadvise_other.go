//go:build !linux

package scan

import "os"

func advise(*os.File) {}
