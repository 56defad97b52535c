package similarity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/clonegate/clonegate/pkg/lang"
)

// buildFunc generates a Go function whose body repeats a simple statement,
// so tests can scale token counts without hand-counting.
func buildFunc(name string, stmts int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(a, b int) int {\n", name)
	for i := 0; i < stmts; i++ {
		fmt.Fprintf(&sb, "\tv%d := a + b*%d\n", i, i+1)
	}
	sb.WriteString("\treturn a + b\n}\n")
	return sb.String()
}

func TestExtractRegionsBasic(t *testing.T) {
	p := lang.ProfileFor(lang.LangGo)
	content := "package main\n\n" + buildFunc("first", 12) + "\n" + buildFunc("second", 12)

	opts := Options{ShingleSize: 7, MinTokens: 10}
	regions := ExtractRegions("main.go", []byte(content), p, opts)

	if len(regions) != 2 {
		t.Fatalf("extracted %d regions, want 2", len(regions))
	}
	if regions[0].StartLine != 1 {
		t.Errorf("first region start line = %d, want 1", regions[0].StartLine)
	}
	if regions[1].StartLine <= regions[0].StartLine {
		t.Errorf("second region start line %d should follow first %d", regions[1].StartLine, regions[0].StartLine)
	}
	for _, r := range regions {
		if len(r.Shingles) != len(r.Tokens)-opts.ShingleSize+1 {
			t.Errorf("region has %d shingles for %d tokens, want n-k+1", len(r.Shingles), len(r.Tokens))
		}
		if r.File != "main.go" {
			t.Errorf("region file = %q", r.File)
		}
	}
}

// Regions below the minimum token count are excluded entirely, even when
// byte-identical code exists elsewhere.
func TestExtractRegionsMinTokenThreshold(t *testing.T) {
	p := lang.ProfileFor(lang.LangGo)
	content := buildFunc("small", 6)

	base := Normalize(content, p)
	if len(base) == 0 {
		t.Fatal("no tokens")
	}

	atLimit := Options{ShingleSize: 7, MinTokens: len(base)}
	if got := ExtractRegions("a.go", []byte(content), p, atLimit); len(got) != 1 {
		t.Errorf("region at exactly the minimum should be kept, got %d regions", len(got))
	}

	aboveLimit := Options{ShingleSize: 7, MinTokens: len(base) + 1}
	if got := ExtractRegions("a.go", []byte(content), p, aboveLimit); len(got) != 0 {
		t.Errorf("region below the minimum should be discarded, got %d regions", len(got))
	}
}

// Blocks that never match the region-start heuristic are not candidates,
// however large they are.
func TestExtractRegionsRequiresRegionStart(t *testing.T) {
	p := lang.ProfileFor(lang.LangGo)
	var sb strings.Builder
	sb.WriteString("var table = map[string]int{\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "\t\"k%d\": %d,\n", i, i)
	}
	sb.WriteString("}\n")

	regions := ExtractRegions("table.go", []byte(sb.String()), p, Options{ShingleSize: 7, MinTokens: 10})
	if len(regions) != 0 {
		t.Errorf("non-function block should not be a region, got %d", len(regions))
	}
}

// Nested braces stay inside one region: only depth-zero boundaries flush.
func TestExtractRegionsTopLevelOnly(t *testing.T) {
	p := lang.ProfileFor(lang.LangGo)
	content := `func outer(a int) int {
	inner := func(b int) int {
		if b > 0 {
			return b * 2
		}
		return -b
	}
	total := inner(a) + inner(a+1) + inner(a+2)
	return total
}
`
	regions := ExtractRegions("nested.go", []byte(content), p, Options{ShingleSize: 7, MinTokens: 10})
	if len(regions) != 1 {
		t.Fatalf("extracted %d regions, want 1 (nested blocks must not split)", len(regions))
	}
	if regions[0].StartLine != 1 {
		t.Errorf("start line = %d, want 1", regions[0].StartLine)
	}
}

func TestExtractRegionsUnbalancedBraces(t *testing.T) {
	p := lang.ProfileFor(lang.LangGo)
	// A stray closing brace must not wedge the depth counter below zero.
	content := "}\n}\n" + buildFunc("resilient", 12)
	regions := ExtractRegions("odd.go", []byte(content), p, Options{ShingleSize: 7, MinTokens: 10})
	if len(regions) != 1 {
		t.Errorf("extracted %d regions, want 1", len(regions))
	}
}

func TestExtractRegionsUnknownProfile(t *testing.T) {
	if got := ExtractRegions("x.bin", []byte("{}"), nil, DefaultOptions()); got != nil {
		t.Errorf("nil profile should yield no regions, got %v", got)
	}
}
