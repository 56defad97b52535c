// Package output renders gate results as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/clonegate/clonegate/pkg/gate"
	"github.com/clonegate/clonegate/pkg/models"
)

// Format selects a report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "json" {
		return FormatJSON
	}
	return FormatText
}

// Formatter writes reports to stdout or a file.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter. A non-empty output path redirects
// the report to that file and disables color.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		colored = false
	}

	return &Formatter{
		format:  format,
		writer:  writer,
		file:    file,
		colored: colored,
	}, nil
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Writer returns the underlying writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Write renders a gate result in the configured format.
func (f *Formatter) Write(res *gate.Result) error {
	if f.format == FormatJSON {
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(res)
	}
	return f.renderText(res)
}

func (f *Formatter) renderText(res *gate.Result) error {
	w := f.writer

	title := fmt.Sprintf("Duplicate Check (%s scope)", res.Scope)
	if f.colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "files: %d  regions: %d  cache: %d hit / %d miss\n\n",
		res.FilesScanned, res.Regions, res.CacheHits, res.CacheMisses)

	if len(res.Findings) > 0 {
		f.findingsTable(w, res.Findings)
	}

	if res.Summary.Pairs > 0 {
		fmt.Fprintf(w, "similarity: %d pairs, mean %.2f, p50 %.2f, p95 %.2f\n",
			res.Summary.Pairs, res.Summary.MeanSimilarity,
			res.Summary.P50Similarity, res.Summary.P95Similarity)
	}
	for _, e := range res.FileErrors {
		fmt.Fprintf(w, "skipped: %s\n", e)
	}

	blocking, warnings, waived := res.Blocking(), res.Warnings(), res.Waived()
	if len(waived) > 0 {
		fmt.Fprintf(w, "waived: %d\n", len(waived))
	}
	fmt.Fprintln(w)

	switch {
	case len(blocking) > 0:
		f.verdict(w, color.FgRed, "BLOCKED: %d finding(s) require attention", len(blocking))
	case len(warnings) > 0:
		f.verdict(w, color.FgYellow, "PASSED with %d warning(s)", len(warnings))
	default:
		f.verdict(w, color.FgGreen, "PASSED")
	}
	return nil
}

func (f *Formatter) verdict(w io.Writer, c color.Attribute, format string, args ...any) {
	if f.colored {
		color.New(c, color.Bold).Fprintf(w, format+"\n", args...)
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (f *Formatter) findingsTable(w io.Writer, findings []models.Finding) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"Severity", "Kind", "Location", "Detail"})
	for _, finding := range findings {
		sev := string(finding.Severity)
		if finding.WaiverID != "" {
			sev += " (waived " + finding.WaiverID + ")"
		}
		table.Append([]string{sev, string(finding.Kind), finding.Location(), finding.Message})
	}
	table.Render()
	fmt.Fprintln(w)
}
