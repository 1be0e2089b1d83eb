package scan_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/adowlingnz/file-analyser-utils/internal/errs"
	"github.com/adowlingnz/file-analyser-utils/internal/scan"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// checkAccounting asserts the one invariant every analysis must hold: each
// line is counted exactly once, as consistent, inconsistent or the skipped
// header.
func checkAccounting(t *testing.T, res *scan.Result, skipHeader bool) {
	t.Helper()
	var skipped int64
	if skipHeader && res.TotalLines > 0 {
		skipped = 1
	}
	if got := res.ConsistentLines + res.InconsistentLines + skipped; got != res.TotalLines {
		t.Fatalf("line accounting broken: consistent %d + inconsistent %d + skipped %d = %d, want total %d",
			res.ConsistentLines, res.InconsistentLines, skipped, got, res.TotalLines)
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		want    int64
	}{
		{"empty file", "", 0},
		{"single terminated line", "a,b,c\n", 1},
		{"single unterminated line", "a,b,c", 1},
		{"terminated and unterminated agree", "a,b,c\n1,2,3", 2},
		{"trailing newline ends last line", "a,b,c\n1,2,3\n", 2},
		{"lone newline", "\n", 1},
		{"blank line in the middle", "a\n\nb\n", 3},
		{"trailing blank line", "a\n\n", 2},
		{"crlf", "a\r\nb\r\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := scan.CountLines(writeTemp(t, tt.content))
			if err != nil {
				t.Fatalf("CountLines: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d lines, want %d", got, tt.want)
			}
		})
	}
}

func TestCountLinesMissingFile(t *testing.T) {
	t.Parallel()
	_, err := scan.CountLines(filepath.Join(t.TempDir(), "no-such-file.csv"))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want a not-found error", err)
	}
}

func TestCountLinesRejectsBinary(t *testing.T) {
	t.Parallel()
	_, err := scan.CountLines(writeTemp(t, "a,b\n\xff\xfe\nc,d\n"))
	if !errors.Is(err, errs.ErrDecode) {
		t.Fatalf("got %v, want a decode error", err)
	}
}

func TestCountLinesLongLine(t *testing.T) {
	t.Parallel()
	// Longer than the scanner's internal buffer, forcing the carry path.
	long := strings.Repeat("x", 1<<20+37)
	got, err := scan.CountLines(writeTemp(t, long+"\ny\n"))
	if err != nil {
		t.Fatalf("CountLines: %v", err)
	}
	if got != 2 {
		t.Fatalf("got %d lines, want 2", got)
	}
}

func TestForEachLineContent(t *testing.T) {
	t.Parallel()
	var lines []string
	err := scan.ForEachLine(strings.NewReader("a\r\nb\n\nc"), func(n int64, line []byte) error {
		lines = append(lines, string(line))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLine: %v", err)
	}
	want := []string{"a\r", "b", "", "c"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("got %q, want %q", lines, want)
	}
}

func TestForEachLineCarryPreservesBytes(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 1<<20+37)
	var lens []int
	err := scan.ForEachLine(strings.NewReader(long+"\nshort"), func(n int64, line []byte) error {
		lens = append(lens, len(line))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLine: %v", err)
	}
	want := []int{1<<20 + 37, 5}
	if !reflect.DeepEqual(lens, want) {
		t.Fatalf("got line lengths %v, want %v", lens, want)
	}
}

func TestForEachLineUnterminatedCarry(t *testing.T) {
	t.Parallel()
	// No newline at all, still longer than the buffer.
	long := strings.Repeat("y", 1<<20+5)
	var calls int
	err := scan.ForEachLine(strings.NewReader(long), func(n int64, line []byte) error {
		calls++
		if len(line) != len(long) {
			t.Fatalf("got %d bytes, want %d", len(line), len(long))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLine: %v", err)
	}
	if calls != 1 {
		t.Fatalf("got %d callbacks, want 1", calls)
	}
}

func TestForEachLineStopsOnCallbackError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	var calls int
	err := scan.ForEachLine(strings.NewReader("a\nb\nc\n"), func(n int64, line []byte) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the callback error", err)
	}
	if calls != 1 {
		t.Fatalf("got %d callbacks, want 1", calls)
	}
}

func TestAnalyseMixedFieldCounts(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, "a,b,c\n1,2,3\n4,5\n6,7,8,9\n"), scan.Options{})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.TotalLines != 4 || res.ConsistentLines != 2 || res.InconsistentLines != 2 {
		t.Fatalf("got total %d consistent %d inconsistent %d, want 4/2/2",
			res.TotalLines, res.ConsistentLines, res.InconsistentLines)
	}
	if !res.BaselineSet || res.Baseline != 3 {
		t.Fatalf("got baseline %d (set %v), want 3", res.Baseline, res.BaselineSet)
	}
	wantMismatches := []scan.Mismatch{{Line: 3, Fields: 2}, {Line: 4, Fields: 4}}
	if !reflect.DeepEqual(res.Mismatches, wantMismatches) {
		t.Fatalf("got mismatches %v, want %v", res.Mismatches, wantMismatches)
	}
	wantCounts := map[int]int64{3: 2, 2: 1, 4: 1}
	if !reflect.DeepEqual(res.FieldCounts, wantCounts) {
		t.Fatalf("got field counts %v, want %v", res.FieldCounts, wantCounts)
	}
	if res.Truncated {
		t.Fatal("result truncated with only two mismatches")
	}
	checkAccounting(t, res, false)
}

func TestAnalyseIsIdempotent(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "a,b,c\n1,2,3\n4,5\n6,7,8,9\n")
	opt := scan.Options{Delimiter: ',', SkipHeader: false}

	first, err := scan.Analyse(path, opt)
	if err != nil {
		t.Fatalf("first Analyse: %v", err)
	}
	second, err := scan.Analyse(path, opt)
	if err != nil {
		t.Fatalf("second Analyse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("runs differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyseSkipHeaderWithSemicolons(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	sb.WriteString("id;name;val\n")
	for i := 0; i < 100; i++ {
		sb.WriteString("1;alpha;2.5\n")
	}
	res, err := scan.Analyse(writeTemp(t, sb.String()), scan.Options{Delimiter: ';', SkipHeader: true})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.TotalLines != 101 || res.ConsistentLines != 100 || res.InconsistentLines != 0 {
		t.Fatalf("got total %d consistent %d inconsistent %d, want 101/100/0",
			res.TotalLines, res.ConsistentLines, res.InconsistentLines)
	}
	if res.Baseline != 3 {
		t.Fatalf("got baseline %d, want 3", res.Baseline)
	}
	if len(res.Mismatches) != 0 {
		t.Fatalf("got %d mismatches, want none", len(res.Mismatches))
	}
	checkAccounting(t, res, true)
}

func TestAnalyseEmptyFile(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, ""), scan.Options{})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.TotalLines != 0 || res.ConsistentLines != 0 || res.InconsistentLines != 0 {
		t.Fatalf("got total %d consistent %d inconsistent %d, want all zero",
			res.TotalLines, res.ConsistentLines, res.InconsistentLines)
	}
	if res.BaselineSet {
		t.Fatal("baseline set for an empty file")
	}
	checkAccounting(t, res, false)
}

func TestAnalyseHeaderOnlyWithSkip(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, "id,name\n"), scan.Options{SkipHeader: true})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.TotalLines != 1 || res.ConsistentLines != 0 || res.InconsistentLines != 0 {
		t.Fatalf("got total %d consistent %d inconsistent %d, want 1/0/0",
			res.TotalLines, res.ConsistentLines, res.InconsistentLines)
	}
	if res.BaselineSet {
		t.Fatal("baseline set from a skipped header")
	}
	checkAccounting(t, res, true)
}

func TestAnalyseBlankLineIsOneField(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, "a,b\n\n"), scan.Options{})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	want := []scan.Mismatch{{Line: 2, Fields: 1}}
	if !reflect.DeepEqual(res.Mismatches, want) {
		t.Fatalf("got mismatches %v, want %v", res.Mismatches, want)
	}
	if res.FieldCounts[1] != 1 {
		t.Fatalf("got %d one-field lines, want 1", res.FieldCounts[1])
	}
	checkAccounting(t, res, false)
}

func TestAnalyseSplitsInsideQuotes(t *testing.T) {
	t.Parallel()
	// Splitting is delimiter-only: the quoted comma still separates fields.
	res, err := scan.Analyse(writeTemp(t, "\"a,b\",c\nx,y\n"), scan.Options{})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.Baseline != 3 {
		t.Fatalf("got baseline %d, want 3", res.Baseline)
	}
	want := []scan.Mismatch{{Line: 2, Fields: 2}}
	if !reflect.DeepEqual(res.Mismatches, want) {
		t.Fatalf("got mismatches %v, want %v", res.Mismatches, want)
	}
	checkAccounting(t, res, false)
}

func TestAnalyseRecoversFromUndecodableLine(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, "a,b\n\xff\xfe\nc,d\n"), scan.Options{})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.TotalLines != 3 || res.ConsistentLines != 2 || res.InconsistentLines != 1 {
		t.Fatalf("got total %d consistent %d inconsistent %d, want 3/2/1",
			res.TotalLines, res.ConsistentLines, res.InconsistentLines)
	}
	want := []scan.Mismatch{{Line: 2, Fields: 0}}
	if !reflect.DeepEqual(res.Mismatches, want) {
		t.Fatalf("got mismatches %v, want %v", res.Mismatches, want)
	}
	if res.FieldCounts[0] != 1 {
		t.Fatalf("got %d undecodable lines in bucket 0, want 1", res.FieldCounts[0])
	}
	checkAccounting(t, res, false)
}

func TestAnalyseUndecodableLineNeverSetsBaseline(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, "\xff\xfe\na,b\nc,d\n"), scan.Options{})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if !res.BaselineSet || res.Baseline != 2 {
		t.Fatalf("got baseline %d (set %v), want 2 from the first clean line", res.Baseline, res.BaselineSet)
	}
	want := []scan.Mismatch{{Line: 1, Fields: 0}}
	if !reflect.DeepEqual(res.Mismatches, want) {
		t.Fatalf("got mismatches %v, want %v", res.Mismatches, want)
	}
	checkAccounting(t, res, false)
}

func TestAnalyseMismatchCap(t *testing.T) {
	t.Parallel()
	res, err := scan.Analyse(writeTemp(t, "a,b\n1\n2\n3\n4\n5\n"), scan.Options{MismatchCap: 2})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if res.InconsistentLines != 5 {
		t.Fatalf("got %d inconsistent lines, want 5", res.InconsistentLines)
	}
	if len(res.Mismatches) != 2 {
		t.Fatalf("got %d recorded mismatches, want 2", len(res.Mismatches))
	}
	if !res.Truncated {
		t.Fatal("cap exceeded but result not marked truncated")
	}
	checkAccounting(t, res, false)
}

func TestAnalyseMissingFile(t *testing.T) {
	t.Parallel()
	_, err := scan.Analyse(filepath.Join(t.TempDir(), "no-such-file.csv"), scan.Options{})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want a not-found error", err)
	}
}
