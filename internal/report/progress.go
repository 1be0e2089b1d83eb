package report

import (
	"fmt"
	"io"
)

// Progress writes carriage-return status lines during long row scans. The
// update interval is one percent of the total, with a floor of one row, and
// the final row always reports so the display ends on the true count.
type Progress struct {
	w        io.Writer
	total    int64
	interval int64
	verb     string
	enabled  bool
}

// NewProgress builds a reporter for total rows. verb completes the line, as
// in "rows analysed" or "rows searched". A disabled reporter writes nothing.
func NewProgress(w io.Writer, total int64, verb string, enabled bool) *Progress {
	interval := total / 100
	if interval < 1 {
		interval = 1
	}
	return &Progress{w: w, total: total, interval: interval, verb: verb, enabled: enabled}
}

// Step reports the i-th row (1-based) when it lands on an interval boundary
// or is the last row.
func (p *Progress) Step(i int64) {
	if !p.enabled {
		return
	}
	if i%p.interval == 0 || i == p.total {
		fmt.Fprintf(p.w, "Progress: %s/%s rows %s...\r", Count(i), Count(p.total), p.verb)
	}
}
