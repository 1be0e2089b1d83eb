// csv-analyser reports line counts, field-count consistency and table
// views for delimited text files.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adowlingnz/file-analyser-utils/internal/buildinfo"
	"github.com/adowlingnz/file-analyser-utils/internal/config"
	"github.com/adowlingnz/file-analyser-utils/internal/csvtable"
	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/logging"
	"github.com/adowlingnz/file-analyser-utils/internal/report"
	"github.com/adowlingnz/file-analyser-utils/internal/scan"
)

const toolName = "csv-analyser"

type options struct {
	analyse    bool
	delimiter  string
	skipHeader bool
	describe   bool
	top        int
	tail       int
	row        int
	context    int
	raw        bool
	find       string
	compare    string
	format     string
	verbose    bool
}

type runMode int

const (
	modeCount runMode = iota
	modeDescribe
	modeAnalyse
	modeTail
	modeTop
	modeRow
	modeFind
	modeCompare
)

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "csv-analyser <file>",
		Short: "CSV line-count and field-consistency analyser",
		Long: `
Streams a delimited text file and reports its line count, with optional
field-count consistency analysis, a column/type overview, record windows,
row search and file comparison.
`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&opts.analyse, "analyse", false, "Perform field count consistency analysis")
	fl.StringVar(&opts.delimiter, "delimiter", ",", "Field delimiter (single character)")
	fl.BoolVar(&opts.skipHeader, "skip-header", false, "Treat the first line as a header, excluded from the analysis")
	fl.BoolVar(&opts.describe, "describe", false, "Show the column and type overview")
	fl.IntVar(&opts.top, "top", 0, "Show the first N records")
	fl.IntVar(&opts.tail, "tail", 0, "Show the last N records")
	fl.IntVar(&opts.row, "row", 0, "Show a specific row and N either side")
	fl.IntVar(&opts.context, "context", 5, "Number of rows before/after for --row")
	fl.BoolVar(&opts.raw, "raw", false, "Display raw lines instead of formatted output, or search for a raw string with --find")
	fl.StringVar(&opts.find, "find", "", "Find rows matching column values (JSON string or raw string)")
	fl.StringVar(&opts.compare, "compare", "", "Compare the main file to a second CSV file")
	fl.StringVar(&opts.format, "format", "plain", "Field overview format: plain or table")
	fl.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, opts *options, path string) error {
	cfg := config.Load()
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	log := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	for _, issue := range cfg.Validate() {
		if issue.Severity == config.SeverityError {
			return errs.InvalidArgumentf("configuration: %s", issue)
		}
		log.Warn(issue.Error())
	}

	delim, err := decodeDelimiter(opts.delimiter)
	if err != nil {
		return err
	}
	for _, c := range []struct {
		name  string
		value int
	}{
		{"top", opts.top}, {"tail", opts.tail}, {"row", opts.row}, {"context", opts.context},
	} {
		if c.value < 0 {
			return errs.InvalidArgumentf("--%s must not be negative, got %d", c.name, c.value)
		}
	}
	if opts.format != "plain" && opts.format != "table" {
		return errs.InvalidArgumentf("--format must be plain or table, got %q", opts.format)
	}

	mode, modeStr := pickMode(cmd, opts, path)

	out := cmd.OutOrStdout()
	report.Banner(out, toolName, buildinfo.Version, path, modeStr)
	log.WithFields(logrus.Fields{
		"run_id":  uuid.NewString(),
		"tool":    toolName,
		"version": buildinfo.Version,
		"file":    path,
		"mode":    modeStr,
	}).Debug("starting run")

	start := time.Now()
	if err := dispatch(out, mode, opts, path, delim, cfg, log); err != nil {
		return err
	}
	report.Timing(out, time.Since(start))
	return nil
}

// pickMode applies the mode precedence: compare, find, row, top, tail,
// analyse, describe, then the plain line count. Window flags count as set
// even at an explicit zero.
func pickMode(cmd *cobra.Command, opts *options, path string) (runMode, string) {
	flags := cmd.Flags()
	switch {
	case opts.compare != "":
		return modeCompare, fmt.Sprintf("Compare (%s vs %s)", path, opts.compare)
	case opts.find != "":
		return modeFind, fmt.Sprintf("Find (%s)", opts.find)
	case flags.Changed("row"):
		return modeRow, fmt.Sprintf("Row (%d ± %d records)", opts.row, opts.context)
	case flags.Changed("top"):
		return modeTop, fmt.Sprintf("Top (%d records)", opts.top)
	case flags.Changed("tail"):
		return modeTail, fmt.Sprintf("Tail (%d records)", opts.tail)
	case opts.analyse:
		return modeAnalyse, "Analyse"
	case opts.describe:
		return modeDescribe, "Describe"
	default:
		return modeCount, "Count"
	}
}

func dispatch(w io.Writer, mode runMode, opts *options, path string, delim rune, cfg *config.Config, log *logrus.Logger) error {
	loadTable := func() (*csvtable.Table, error) {
		return csvtable.Load(path, delim, log)
	}

	switch mode {
	case modeCompare:
		return csvtable.Compare(w, path, opts.compare, delim, log)

	case modeFind:
		// A JSON object searches by column values; anything else, or an
		// explicit --raw, searches the physical lines for the argument text.
		criteria, isJSON := csvtable.ParseCriteria(opts.find)
		if !isJSON || opts.raw {
			return csvtable.FindRaw(w, path, opts.find)
		}
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		return tbl.Find(w, criteria)

	case modeRow:
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		return tbl.RowContext(w, opts.row, opts.context, opts.format, opts.raw)

	case modeTop:
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		return tbl.Top(w, opts.top, opts.format, opts.raw)

	case modeTail:
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		return tbl.Tail(w, opts.tail, opts.format, opts.raw)

	case modeAnalyse:
		return runAnalyse(w, path, delim, opts.skipHeader, cfg.MismatchCap, log)

	case modeDescribe:
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		tbl.Describe(w, opts.format)
		return nil

	default:
		total, err := scan.CountLines(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Total lines: %s\n", report.Count(total))
		return nil
	}
}

func runAnalyse(w io.Writer, path string, delim rune, skipHeader bool, mismatchCap int, log *logrus.Logger) error {
	if mismatchCap <= 0 {
		mismatchCap = scan.DefaultMismatchCap
	}
	res, err := scan.Analyse(path, scan.Options{
		Delimiter:   delim,
		SkipHeader:  skipHeader,
		MismatchCap: mismatchCap,
	})
	if err != nil {
		return err
	}
	renderAnalysis(w, res, mismatchCap)
	if res.Truncated {
		log.Warnf("Mismatch list capped at %d entries; further inconsistent lines were counted but not listed", mismatchCap)
	}
	return nil
}

func renderAnalysis(w io.Writer, res *scan.Result, mismatchCap int) {
	fmt.Fprintf(w, "Total lines: %s\n", report.Count(res.TotalLines))
	fmt.Fprintf(w, "Consistent lines: %s\n", report.Count(res.ConsistentLines))
	fmt.Fprintf(w, "Inconsistent lines: %s\n", report.Count(res.InconsistentLines))

	fmt.Fprintf(w, "\nField Count Summary:\n")
	counts := make([]int, 0, len(res.FieldCounts))
	for c := range res.FieldCounts {
		counts = append(counts, c)
	}
	sort.Ints(counts)
	for _, c := range counts {
		fmt.Fprintf(w, "  %s line(s) with %s field(s)\n",
			report.Count(res.FieldCounts[c]), report.Count(int64(c)))
	}

	if len(res.Mismatches) > 0 {
		fmt.Fprintf(w, "\nLines with inconsistent field counts:\n")
		for _, m := range res.Mismatches {
			fmt.Fprintf(w, "  Line %s: %s field(s)\n", report.Count(m.Line), report.Count(int64(m.Fields)))
		}
		if res.Truncated {
			fmt.Fprintf(w, "  (mismatch list capped at %s entries)\n", report.Count(int64(mismatchCap)))
		}
	} else {
		fmt.Fprintf(w, "\nAll lines have consistent field counts.\n")
	}
}

// decodeDelimiter converts the --delimiter argument to a single rune.
func decodeDelimiter(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, errs.InvalidArgumentf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errs.ExitCode(err))
	}
}
