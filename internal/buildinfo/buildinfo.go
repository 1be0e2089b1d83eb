// Package buildinfo carries the version stamped into the binaries.
package buildinfo

// Version is the analyser release. Overridable at link time:
//
//	go build -ldflags "-X github.com/adowlingnz/file-analyser-utils/internal/buildinfo.Version=1.2.3"
var Version = "0.1.0"
