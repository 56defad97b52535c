// Package waiver loads and applies finding waivers.
//
// A waiver file is a YAML list of records. Each record names a path
// glob and an expiry date; findings whose file matches an unexpired
// record are reported but do not block.
package waiver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clonegate/clonegate/pkg/models"
)

// Record is a single waiver entry.
type Record struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
	Reason  string `yaml:"reason"`
	Expires string `yaml:"expires"` // YYYY-MM-DD, empty means never
}

// expired reports whether the record is past its expiry at now.
func (r Record) expired(now time.Time) bool {
	if r.Expires == "" {
		return false
	}
	t, err := time.Parse("2006-01-02", r.Expires)
	if err != nil {
		// An unparseable expiry waives nothing.
		return true
	}
	return !now.Before(t.AddDate(0, 0, 1))
}

// Store holds the active waiver records.
type Store struct {
	records []Record
	now     func() time.Time
}

// Load reads a waiver file. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{now: time.Now}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading waiver file: %w", err)
	}
	var doc struct {
		Waivers []Record `yaml:"waivers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing waiver file %s: %w", path, err)
	}
	s.records = doc.Waivers
	return s, nil
}

// Match returns the id of the first unexpired record whose pattern
// matches the finding's file, or "" when the finding is not waived.
func (s *Store) Match(f models.Finding) string {
	for _, r := range s.records {
		if r.expired(s.now()) {
			continue
		}
		if matchGlob(r.Pattern, f.File) {
			return r.ID
		}
	}
	return ""
}

// Len returns the number of loaded records, expired ones included.
func (s *Store) Len() int {
	return len(s.records)
}

// matchGlob matches a path against a glob. A "**/" prefix or bare
// directory pattern matches at any depth; otherwise path.Match
// semantics apply against the full slash path and the basename.
func matchGlob(pattern, path string) bool {
	path = filepath.ToSlash(path)
	if pattern == path {
		return true
	}
	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
		return true
	}
	// dir/** waives everything under dir.
	if len(pattern) > 3 && pattern[len(pattern)-3:] == "/**" {
		prefix := pattern[:len(pattern)-2]
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
