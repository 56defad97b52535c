package similarity

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/clonegate/clonegate/pkg/models"
)

// shingleSeparator joins the k tokens of one shingle into its index key.
const shingleSeparator = " "

// Shingles produces the ordered k-gram windows of a token stream. A
// stream of n tokens yields max(0, n-k+1) shingles.
func Shingles(tokens []string, k int) []string {
	if k <= 0 || len(tokens) < k {
		return nil
	}
	shingles := make([]string, 0, len(tokens)-k+1)
	for i := 0; i+k <= len(tokens); i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+k], shingleSeparator))
	}
	return shingles
}

// Index is an inverted index from shingle key to the set of regions that
// contain it. Posting lists are Roaring bitmaps of region indices, so
// candidate generation walks only shingles shared by two or more regions.
type Index struct {
	regions  []models.Region
	postings map[string]*roaring.Bitmap
}

// NewIndex builds the inverted index over a region set. Region identity
// is the index into the given slice.
func NewIndex(regions []models.Region) *Index {
	idx := &Index{
		regions:  regions,
		postings: make(map[string]*roaring.Bitmap),
	}
	for i := range regions {
		for _, sh := range regions[i].Shingles {
			bm, ok := idx.postings[sh]
			if !ok {
				bm = roaring.New()
				idx.postings[sh] = bm
			}
			bm.Add(uint32(i))
		}
	}
	return idx
}

// Regions returns the indexed region set.
func (idx *Index) Regions() []models.Region {
	return idx.regions
}

// CandidatePairs returns every unordered region pair sharing at least one
// shingle, mapped to the number of shingle keys under which the pair
// co-occurs. The count only drives candidate discovery; scoring uses the
// full shingle sets.
func (idx *Index) CandidatePairs() map[[2]int]int {
	pairs := make(map[[2]int]int)
	for _, bm := range idx.postings {
		if bm.GetCardinality() < 2 {
			continue
		}
		members := bm.ToArray()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := int(members[i]), int(members[j])
				pairs[[2]int{a, b}]++
			}
		}
	}
	return pairs
}
