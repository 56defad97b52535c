package models

import "fmt"

// Severity classifies how a finding affects the gate decision. It is
// fixed when the finding is created, always from numeric thresholds.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityBlock Severity = "block"
)

// Kind tags the finding variant.
type Kind string

const (
	KindPair              Kind = "similar_pair"
	KindCluster           Kind = "file_cluster"
	KindSymbolRegression  Kind = "symbol_regression"
	KindBasenameDuplicate Kind = "basename_duplicate"
)

// Finding is a single gate observation. Which fields are populated
// depends on Kind: pairs carry both locations and a similarity score,
// clusters carry the member file set, symbol regressions carry the
// bucket count against its baseline, and basename duplicates carry the
// colliding files.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`

	// Pair findings
	OtherFile  string  `json:"other_file,omitempty"`
	OtherLine  int     `json:"other_line,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`

	// Cluster and basename findings
	Members []string `json:"members,omitempty"`

	// Symbol regression findings
	Category string `json:"category,omitempty"`
	Count    int    `json:"count,omitempty"`
	Baseline int    `json:"baseline,omitempty"`

	Remediation string `json:"remediation,omitempty"`

	// WaiverID is set by the verdict compiler when an active waiver
	// matched the finding.
	WaiverID string `json:"waiver_id,omitempty"`
}

// Location renders the finding's primary file:line context.
func (f *Finding) Location() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

// Blocking reports whether the finding carries block severity.
func (f *Finding) Blocking() bool {
	return f.Severity == SeverityBlock
}
