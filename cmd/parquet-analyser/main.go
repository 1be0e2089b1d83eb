// parquet-analyser inspects Parquet files: schema overview, row windows,
// null-density analysis, duplicate detection, row search and file
// comparison.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adowlingnz/file-analyser-utils/internal/buildinfo"
	"github.com/adowlingnz/file-analyser-utils/internal/config"
	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/logging"
	"github.com/adowlingnz/file-analyser-utils/internal/parquetfile"
	"github.com/adowlingnz/file-analyser-utils/internal/report"
)

const toolName = "parquet-analyser"

type options struct {
	analyse            bool
	top                int64
	tail               int64
	row                int64
	context            int64
	printMalformedRows bool
	printMalformedData bool
	checkDuplicates    int
	find               string
	compare            string
	format             string
	verbose            bool
}

type runMode int

const (
	modeDescribe runMode = iota
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
		Use:   "parquet-analyser <file>",
		Short: "Parquet schema and row analyser",
		Long: `
Inspects a Parquet file and reports its schema, with optional null-density
and duplicate analysis, record windows, row search and file comparison.
`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&opts.analyse, "analyse", false, "Perform field count analysis")
	fl.Int64Var(&opts.top, "top", 0, "Show the first N records")
	fl.Int64Var(&opts.tail, "tail", 0, "Show the last N records")
	fl.Int64Var(&opts.row, "row", 0, "Show a specific row and N either side")
	fl.Int64Var(&opts.context, "context", 5, "Number of rows before/after for --row")
	fl.BoolVar(&opts.printMalformedRows, "print-malformed-rows", false, "Print row numbers of malformed rows")
	fl.BoolVar(&opts.printMalformedData, "print-malformed-data", false, "Print actual data of malformed rows")
	fl.IntVar(&opts.checkDuplicates, "check-duplicates", 0, "Check for duplicate rows based on first N columns")
	fl.StringVar(&opts.find, "find", "", "Find rows matching column values (JSON string)")
	fl.StringVar(&opts.compare, "compare", "", "Compare the main file to a second Parquet file")
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

	for _, c := range []struct {
		name  string
		value int64
	}{
		{"top", opts.top}, {"tail", opts.tail}, {"row", opts.row},
		{"context", opts.context}, {"check-duplicates", int64(opts.checkDuplicates)},
	} {
		if c.value < 0 {
			return errs.InvalidArgumentf("--%s must not be negative, got %d", c.name, c.value)
		}
	}
	if opts.format != "plain" && opts.format != "table" {
		return errs.InvalidArgumentf("--format must be plain or table, got %q", opts.format)
	}
	var criteria map[string]any
	if opts.find != "" {
		var ok bool
		criteria, ok = parquetfile.ParseCriteria(opts.find)
		if !ok {
			return errs.InvalidArgumentf("--find must be a JSON object of column/value pairs, got %q", opts.find)
		}
	}

	mode, modeStr, modeOpts := pickMode(cmd, opts, path)

	out := cmd.OutOrStdout()
	report.Banner(out, toolName, buildinfo.Version, path, modeStr, modeOpts...)
	log.WithFields(logrus.Fields{
		"run_id":  uuid.NewString(),
		"tool":    toolName,
		"version": buildinfo.Version,
		"file":    path,
		"mode":    modeStr,
	}).Debug("starting run")

	start := time.Now()
	if err := dispatch(out, mode, opts, criteria, path, cfg); err != nil {
		return err
	}
	report.Timing(out, time.Since(start))
	return nil
}

// pickMode applies the mode precedence: compare, find, row, top, tail,
// analyse, then the schema overview. Window flags count as set even at an
// explicit zero. Analysis mode carries its enabled options as banner lines.
func pickMode(cmd *cobra.Command, opts *options, path string) (runMode, string, []string) {
	flags := cmd.Flags()
	switch {
	case opts.compare != "":
		return modeCompare, fmt.Sprintf("Compare (%s vs %s)", path, opts.compare), nil
	case opts.find != "":
		return modeFind, fmt.Sprintf("Find (%s)", opts.find), nil
	case flags.Changed("row"):
		return modeRow, fmt.Sprintf("Row (%d ± %d records)", opts.row, opts.context), nil
	case flags.Changed("top"):
		return modeTop, fmt.Sprintf("Top (%d records)", opts.top), nil
	case flags.Changed("tail"):
		return modeTail, fmt.Sprintf("Tail (%d records)", opts.tail), nil
	case opts.analyse:
		var lines []string
		if opts.printMalformedRows {
			lines = append(lines, "Print malformed row numbers")
		}
		if opts.printMalformedData {
			lines = append(lines, "Print malformed row data")
		}
		if opts.checkDuplicates > 0 {
			lines = append(lines, fmt.Sprintf("Check duplicates on first %d columns", opts.checkDuplicates))
		}
		return modeAnalyse, "Analysis", lines
	default:
		return modeDescribe, "Describe", nil
	}
}

func dispatch(w io.Writer, mode runMode, opts *options, criteria map[string]any, path string, cfg *config.Config) error {
	if mode == modeCompare {
		return parquetfile.Compare(w, path, opts.compare)
	}

	f, err := parquetfile.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch mode {
	case modeFind:
		return f.Find(w, criteria, opts.format, cfg.Progress)
	case modeRow:
		return f.RowContext(w, opts.row, opts.context, opts.format)
	case modeTop:
		return f.Top(w, opts.top, opts.format)
	case modeTail:
		return f.Tail(w, opts.tail, opts.format)
	case modeAnalyse:
		return f.Analyse(w, parquetfile.AnalyseOptions{
			PrintMalformedRows: opts.printMalformedRows,
			PrintMalformedData: opts.printMalformedData,
			CheckDuplicates:    opts.checkDuplicates,
			Progress:           cfg.Progress,
			Format:             opts.format,
		})
	default:
		f.Describe(w, opts.format)
		return nil
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errs.ExitCode(err))
	}
}
