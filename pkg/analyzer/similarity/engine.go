package similarity

import (
	"sort"

	"github.com/clonegate/clonegate/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// Jaccard computes |A∩B| / |A∪B| over two shingle sequences, treating
// each sequence as a set. It is symmetric and bounded to [0,1]; two empty
// sets score 0.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// FindPairs runs the two-phase detection over a region set: inverted-index
// candidate generation, then exact Jaccard scoring of each candidate.
// Returned pairs are at or above the warn threshold, ordered by
// descending similarity.
func FindPairs(regions []models.Region, opts Options) []Pair {
	idx := NewIndex(regions)
	candidates := idx.CandidatePairs()

	var pairs []Pair
	for key := range candidates {
		a, b := &regions[key[0]], &regions[key[1]]

		if a.File == b.File && absInt(a.StartLine-b.StartLine) <= opts.SameFileLineGap {
			continue
		}

		score := Jaccard(a.Shingles, b.Shingles)
		severity, flagged := classify(score, opts)
		if !flagged {
			continue
		}
		pairs = append(pairs, Pair{
			A:          *a,
			B:          *b,
			Similarity: score,
			Severity:   severity,
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Similarity != pairs[j].Similarity {
			return pairs[i].Similarity > pairs[j].Similarity
		}
		if pairs[i].A.File != pairs[j].A.File {
			return pairs[i].A.File < pairs[j].A.File
		}
		return pairs[i].A.StartLine < pairs[j].A.StartLine
	})

	return pairs
}

// classify maps a similarity score onto a severity. Scores below the warn
// threshold are not findings at all.
func classify(score float64, opts Options) (models.Severity, bool) {
	switch {
	case score >= opts.BlockThreshold:
		return models.SeverityBlock, true
	case score >= opts.WarnThreshold:
		return models.SeverityWarn, true
	default:
		return "", false
	}
}

// Summarize computes aggregate similarity statistics over flagged pairs.
func Summarize(pairs []Pair) Summary {
	if len(pairs) == 0 {
		return Summary{}
	}

	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		scores[i] = p.Similarity
	}
	sort.Float64s(scores)

	return Summary{
		Pairs:          len(pairs),
		MeanSimilarity: stat.Mean(scores, nil),
		P50Similarity:  stat.Quantile(0.50, stat.Empirical, scores, nil),
		P95Similarity:  stat.Quantile(0.95, stat.Empirical, scores, nil),
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
