package similarity

import (
	"strings"

	"github.com/clonegate/clonegate/pkg/lang"
	"github.com/clonegate/clonegate/pkg/models"
)

// ExtractRegions carves top-level brace-delimited blocks out of a file
// and keeps those that look like function or type definitions and meet
// the minimum normalized token count. Nested blocks are not extracted
// separately: a block is flushed only when the running brace depth
// returns to zero.
func ExtractRegions(path string, content []byte, p *lang.Profile, opts Options) []models.Region {
	if p == nil {
		return nil
	}

	var regions []models.Region
	lines := strings.Split(string(content), "\n")

	depth := 0
	inBlock := false
	var buf []string
	bufStart := 0 // 0-based line index of the first buffered line

	flush := func() {
		block := strings.Join(buf, "\n")
		if p.RegionStart.MatchString(block) {
			tokens := Normalize(block, p)
			if len(tokens) >= opts.MinTokens {
				regions = append(regions, models.Region{
					File:        path,
					StartLine:   bufStart + 1,
					Tokens:      tokens,
					Shingles:    Shingles(tokens, opts.ShingleSize),
					Fingerprint: Fingerprint(tokens),
				})
			}
		}
		buf = nil
	}

	for i, line := range lines {
		if len(buf) == 0 {
			// Discard inter-block blank lines so a region's start line
			// points at its first real line.
			if !inBlock && strings.TrimSpace(line) == "" {
				continue
			}
			bufStart = i
		}
		buf = append(buf, line)

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}

		if depth > 0 {
			inBlock = true
		} else if inBlock {
			inBlock = false
			flush()
		}
	}

	// A block left open at EOF is still a candidate.
	if inBlock && len(buf) > 0 {
		flush()
	}

	return regions
}
