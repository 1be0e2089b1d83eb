package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
)

type record struct {
	ID   int64  `parquet:"id"`
	Name string `parquet:"name"`
}

func writeParquet(t *testing.T, rows []record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	w := parquet.NewGenericWriter[record](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescribeDefault(t *testing.T) {
	path := writeParquet(t, []record{{1, "alice"}, {2, "bob"}})

	out, err := runCmd(t, path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{
		"parquet-analyser v0.1.0 starting...\n",
		"\nRuntime Configuration:\n  File: " + path + "\n  Mode: Describe\n\n",
		"Loading Parquet file...\n\nSchema: 2 columns, 2 rows\n\nField Overview:\n\n",
		"  1. id (",
		"  2. name (",
		"\nProcessing time: ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyseBannerOptions(t *testing.T) {
	t.Setenv("PROGRESS", "false")
	path := writeParquet(t, []record{{1, "alice"}, {2, "bob"}})

	out, err := runCmd(t, path, "--analyse",
		"--print-malformed-rows", "--print-malformed-data", "--check-duplicates", "2")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	banner := "  Mode: Analysis\n" +
		"  Option: Print malformed row numbers\n" +
		"  Option: Print malformed row data\n" +
		"  Option: Check duplicates on first 2 columns\n\n"
	if !strings.Contains(out, banner) {
		t.Fatalf("banner block mismatch, want:\n%s\ngot:\n%s", banner, out)
	}
	for _, want := range []string{
		"Analysing Parquet file...\n\n",
		"\n\nNon-Null Field Count Summary:\n",
		"  2 row(s) with 2 non-null field(s)\n",
		"\nAll rows have at least 50% of fields populated.\n",
		"\nNo duplicate rows found based on first 2 columns.\n",
		"\nAnalysis complete.\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyseWithoutOptionLines(t *testing.T) {
	t.Setenv("PROGRESS", "false")
	path := writeParquet(t, []record{{1, "alice"}})

	out, err := runCmd(t, path, "--analyse")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "  Mode: Analysis\n\n") {
		t.Fatalf("analysis banner should have no option lines:\n%s", out)
	}
	if strings.Contains(out, "Option:") {
		t.Fatalf("unexpected option line:\n%s", out)
	}
	if strings.Contains(out, "uplicate") {
		t.Fatalf("duplicate check should be off by default:\n%s", out)
	}
}

func TestTop(t *testing.T) {
	path := writeParquet(t, []record{{1, "alice"}, {2, "bob"}, {3, "carol"}})

	out, err := runCmd(t, path, "--top", "2")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{
		"  Mode: Top (2 records)\n",
		"\nDisplaying first 2 record(s):\n\n",
		`Row 1: {"id":1,"name":"alice"}`,
		`Row 2: {"id":2,"name":"bob"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "carol") {
		t.Fatalf("row past the window displayed:\n%s", out)
	}
}

func TestTopExplicitZero(t *testing.T) {
	path := writeParquet(t, []record{{1, "alice"}})

	out, err := runCmd(t, path, "--top", "0")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "  Mode: Top (0 records)\n") {
		t.Fatalf("explicit --top 0 should still select top mode:\n%s", out)
	}
	if strings.Contains(out, "alice") {
		t.Fatalf("no rows should be displayed:\n%s", out)
	}
}

func TestRowContext(t *testing.T) {
	path := writeParquet(t, []record{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}})

	out, err := runCmd(t, path, "--row", "2", "--context", "1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{
		"  Mode: Row (2 ± 1 records)\n",
		"(row 2 highlighted)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFind(t *testing.T) {
	t.Setenv("PROGRESS", "false")
	path := writeParquet(t, []record{{1, "alice"}, {2, "bob"}})

	out, err := runCmd(t, path, "--find", `{"name":"bob"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{
		"  Mode: Find ({\"name\":\"bob\"})\n",
		"\nSearching for rows where {\"name\":\"bob\"}...\n\n",
		`Row 2: {"id":2,"name":"bob"}`,
		"\nFound 1 matching row(s).\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFindInvalidJSONRejected(t *testing.T) {
	path := writeParquet(t, []record{{1, "alice"}})

	out, err := runCmd(t, path, "--find", "[1,2]")
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if code := errs.ExitCode(err); code != 2 {
		t.Fatalf("ExitCode = %d, want 2", code)
	}
	if strings.Contains(out, "Runtime Configuration:") {
		t.Fatalf("invalid flags must be rejected before the banner:\n%s", out)
	}
}

func TestCompareIdentical(t *testing.T) {
	rows := []record{{1, "alice"}, {2, "bob"}}
	pathA := writeParquet(t, rows)
	pathB := writeParquet(t, rows)

	out, err := runCmd(t, pathA, "--compare", pathB)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{
		"  Mode: Compare (" + pathA + " vs " + pathB + ")\n",
		"\nFiles are IDENTICAL.\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.parquet")

	out, err := runCmd(t, path)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if code := errs.ExitCode(err); code != 1 {
		t.Fatalf("ExitCode = %d, want 1", code)
	}
	if !strings.Contains(out, "Runtime Configuration:") {
		t.Fatalf("banner should precede the open failure:\n%s", out)
	}
}

func TestNegativeCheckDuplicatesRejected(t *testing.T) {
	path := writeParquet(t, []record{{1, "alice"}})

	out, err := runCmd(t, path, "--analyse", "--check-duplicates", "-1")
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if strings.Contains(out, "Runtime Configuration:") {
		t.Fatalf("invalid flags must be rejected before the banner:\n%s", out)
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	path := writeParquet(t, []record{{1, "alice"}})

	_, err := runCmd(t, path, "--format", "fancy")
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
