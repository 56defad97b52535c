package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clonegate/clonegate/internal/scope"
	"github.com/clonegate/clonegate/pkg/gate"
	"github.com/clonegate/clonegate/pkg/models"
)

func sampleResult() *gate.Result {
	return &gate.Result{
		Scope:        scope.ScopeCommit,
		FilesScanned: 3,
		Regions:      5,
		CacheHits:    1,
		CacheMisses:  2,
		Findings: []models.Finding{
			{
				Kind:       models.KindPair,
				Severity:   models.SeverityBlock,
				Message:    "region is 91% similar to pkg/b.go:10",
				File:       "pkg/a.go",
				Line:       4,
				OtherFile:  "pkg/b.go",
				OtherLine:  10,
				Similarity: 0.91,
			},
			{
				Kind:     models.KindBasenameDuplicate,
				Severity: models.SeverityWarn,
				Message:  `basename "client" appears in 2 places within one package`,
				File:     "pkg/client.go",
				Members:  []string{"pkg/client.go", "pkg/client_v2.go"},
				WaiverID: "W-007",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Error("json should parse")
	}
	if ParseFormat("JSON") != FormatJSON {
		t.Error("format should be case-insensitive")
	}
	for _, s := range []string{"text", "", "table"} {
		if ParseFormat(s) != FormatText {
			t.Errorf("ParseFormat(%q) should default to text", s)
		}
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatText, writer: &buf}
	if err := f.Write(sampleResult()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Duplicate Check (commit scope)",
		"files: 3",
		"pkg/a.go:4",
		"waived: 1",
		"BLOCKED: 1 finding(s)",
		"W-007",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextPassVerdict(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatText, writer: &buf}
	res := &gate.Result{Scope: scope.ScopeCI, FilesScanned: 1}
	if err := f.Write(res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "PASSED") {
		t.Errorf("clean result should report PASSED:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatJSON, writer: &buf}
	if err := f.Write(sampleResult()); err != nil {
		t.Fatal(err)
	}

	var decoded gate.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.FilesScanned != 3 || len(decoded.Findings) != 2 {
		t.Errorf("roundtrip lost data: %+v", decoded)
	}
	if decoded.Findings[1].WaiverID != "W-007" {
		t.Error("waiver id should survive serialization")
	}
}

func TestNewFormatterToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write(sampleResult()); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("file report should hold valid JSON")
	}
}
