// Package config loads process-level settings for the analyser binaries.
//
// Settings come from the environment, optionally seeded from a .env file in
// the working directory, and cover the ambient knobs only: logging and scan
// limits. Everything describing a single run (file, mode, delimiter) is a
// command line flag.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds settings shared by both analysers.
type Config struct {
	LogLevel  string // LOG_LEVEL: debug, info, warn, error
	LogFormat string // LOG_FORMAT: text, json

	// MismatchCap bounds the inconsistent-line list kept in memory during a
	// consistency analysis. MISMATCH_CAP; 0 means the built-in default.
	MismatchCap int

	// Progress toggles carriage-return progress updates during row scans.
	// PROGRESS; default true.
	Progress bool
}

// Load reads settings from a .env file (when present) and the environment.
// Values that fail to parse keep their defaults; Validate reports the ones
// worth flagging.
func Load() *Config {
	_ = godotenv.Load()

	mismatchCap, _ := strconv.Atoi(os.Getenv("MISMATCH_CAP"))

	progress := true
	if v := os.Getenv("PROGRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			progress = b
		}
	}

	return &Config{
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFormat:   os.Getenv("LOG_FORMAT"),
		MismatchCap: mismatchCap,
		Progress:    progress,
	}
}

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a setting that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a setting worth surfacing that does not
	// block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static checks over a loaded Config and returns a list
// of issues. Callers decide whether warnings are fatal.
func (c *Config) Validate() []Issue {
	var issues []Issue

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "LOG_LEVEL",
			Message:  fmt.Sprintf("unknown level %q; falling back to warn", c.LogLevel),
		})
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "LOG_FORMAT",
			Message:  fmt.Sprintf("unknown format %q; falling back to text", c.LogFormat),
		})
	}

	if c.MismatchCap < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "MISMATCH_CAP",
			Message:  "must not be negative",
		})
	}

	return issues
}
