// Package similarity implements the near-duplicate detection engine:
// rename-invariant tokenization, brace-depth region extraction, k-gram
// shingling with an inverted-index candidate phase, and exact Jaccard
// scoring of candidate pairs.
package similarity

import (
	"github.com/clonegate/clonegate/pkg/config"
	"github.com/clonegate/clonegate/pkg/models"
)

// Options configures the engine.
type Options struct {
	// ShingleSize is the k-gram window width.
	ShingleSize int
	// MinTokens is the minimum normalized token count for a region to be
	// considered; smaller blocks are trivial helpers, not duplicates.
	MinTokens int
	// SameFileLineGap suppresses pairs whose regions live in the same
	// file with start lines within this many lines of each other. Those
	// are scan artifacts, not duplication.
	SameFileLineGap int
	// WarnThreshold and BlockThreshold classify Jaccard scores.
	WarnThreshold  float64
	BlockThreshold float64
}

// OptionsFromConfig maps gate configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ShingleSize:     cfg.ShingleSize,
		MinTokens:       cfg.MinTokensPerRegion,
		SameFileLineGap: cfg.SameFileLineGap,
		WarnThreshold:   cfg.JaccardWarn,
		BlockThreshold:  cfg.JaccardBlock,
	}
}

// DefaultOptions returns the documented engine defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// Pair is a flagged region pair with its exact Jaccard similarity.
type Pair struct {
	A          models.Region   `json:"a"`
	B          models.Region   `json:"b"`
	Similarity float64         `json:"similarity"`
	Severity   models.Severity `json:"severity"`
}

// Summary aggregates the flagged pairs of one scan.
type Summary struct {
	Pairs          int     `json:"pairs"`
	MeanSimilarity float64 `json:"mean_similarity"`
	P50Similarity  float64 `json:"p50_similarity"`
	P95Similarity  float64 `json:"p95_similarity"`
}
