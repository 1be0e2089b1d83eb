// Package logging configures the process logger.
//
// Both analysers write their reports to stdout, so diagnostics go to a
// separate writer (stderr in the binaries). The default level is warn: a
// normal run stays silent unless something is off.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup builds a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "warn")
// Format values: "text", "json" (default: "text")
//
// Use "json" in pipelines that collect the diagnostics, "text" on a
// terminal.
func Setup(w io.Writer, level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(parseLevel(level))
	if strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

// parseLevel converts a string log level to a logrus level.
func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}
