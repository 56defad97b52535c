// Package models defines the data types shared between the analyzers,
// the cache, and the verdict compiler.
package models

// Region is a contiguous brace-delimited source block treated as one unit
// of duplication analysis. Tokens are the normalized stream; Shingles are
// derived k-gram windows. Both are persisted by the analysis cache, so a
// cache hit restores a Region without re-tokenizing the file.
type Region struct {
	File        string   `json:"file"`
	StartLine   int      `json:"start_line"`
	Tokens      []string `json:"tokens"`
	Shingles    []string `json:"shingles"`
	Fingerprint uint64   `json:"fingerprint"`
}

// TokenCount returns the normalized token count of the region.
func (r *Region) TokenCount() int {
	return len(r.Tokens)
}
