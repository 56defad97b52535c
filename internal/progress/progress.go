// Package progress renders a scan progress bar on stderr.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Scan tracks per-file analysis progress. A nil *Scan is a no-op, so
// callers can skip the enabled check at every tick.
type Scan struct {
	bar *progressbar.ProgressBar
}

// NewScan creates a progress bar over total files. When enabled is
// false (quiet runs, JSON output, no TTY) it returns nil.
func NewScan(total int, enabled bool) *Scan {
	if !enabled || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Scan{bar: bar}
}

// Tick records one processed file. Safe for concurrent use.
func (s *Scan) Tick() {
	if s == nil {
		return
	}
	s.bar.Add(1)
}

// Done clears the bar.
func (s *Scan) Done() {
	if s == nil {
		return
	}
	s.bar.Finish()
	s.bar.Clear()
}

// Fail clears the bar and reports the failure on stderr.
func (s *Scan) Fail(err error) {
	if s == nil {
		return
	}
	s.bar.Finish()
	s.bar.Clear()
	fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
}
