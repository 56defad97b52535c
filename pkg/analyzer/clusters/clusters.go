// Package clusters groups duplication findings by file identity: files
// whose names differ only by version or copy suffixes inside one package
// boundary, duplicated public symbol names measured against regression
// baselines, and exact basename collisions.
package clusters

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/clonegate/clonegate/pkg/analyzer/similarity"
	"github.com/clonegate/clonegate/pkg/models"
)

// Options configures cluster analysis.
type Options struct {
	// SizeWarn and SizeBlock classify cluster member counts.
	SizeWarn  int
	SizeBlock int
	// PackageMarkers are filenames whose presence makes a directory a
	// package root (go.mod, Cargo.toml, ...).
	PackageMarkers []string
	// RootDir bounds the ancestor walk when resolving package roots.
	RootDir string
}

// Cluster is a set of files sharing a normalized stem inside one package
// boundary, built from flagged pair findings.
type Cluster struct {
	Package string   `json:"package"`
	Stem    string   `json:"stem"`
	Files   []string `json:"files"`
}

var (
	versionSuffix = regexp.MustCompile(`(?:[-_.]v?\d+)+$`)
	genericSuffix = regexp.MustCompile(`(?:[-_](?:final|copy|new|next|old|backup))+$`)
)

// NormalizeStem strips version and copy suffixes from a file's basename:
// client-v2.rs, client.3.rs, and client-final.rs all reduce to "client".
func NormalizeStem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for {
		next := versionSuffix.ReplaceAllString(stem, "")
		next = genericSuffix.ReplaceAllString(next, "")
		if next == stem || next == "" {
			break
		}
		stem = next
	}
	return strings.ToLower(stem)
}

// PackageRoot walks a file's ancestor directories until one holds a
// package marker; without a marker the file's own directory is its root.
// The walk never ascends past rootDir. The exists function abstracts the
// filesystem so the analyzer stays testable without touching disk.
func PackageRoot(path string, markers []string, rootDir string, exists func(string) bool) string {
	dir := filepath.Dir(path)
	for cur := dir; ; {
		for _, marker := range markers {
			if exists(filepath.Join(cur, marker)) {
				return cur
			}
		}
		if cur == rootDir || cur == "." || cur == string(filepath.Separator) {
			break
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return dir
}

// FromPairs builds clusters from flagged similarity pairs: each side of
// every pair joins the cluster keyed by its (package root, stem).
func FromPairs(pairs []similarity.Pair, opts Options, exists func(string) bool) []Cluster {
	type key struct {
		pkg  string
		stem string
	}
	memberSets := make(map[key]map[string]struct{})

	add := func(file string) {
		k := key{
			pkg:  PackageRoot(file, opts.PackageMarkers, opts.RootDir, exists),
			stem: NormalizeStem(file),
		}
		set, ok := memberSets[k]
		if !ok {
			set = make(map[string]struct{})
			memberSets[k] = set
		}
		set[file] = struct{}{}
	}

	for _, p := range pairs {
		add(p.A.File)
		add(p.B.File)
	}

	clusters := make([]Cluster, 0, len(memberSets))
	for k, set := range memberSets {
		files := make([]string, 0, len(set))
		for f := range set {
			files = append(files, f)
		}
		sort.Strings(files)
		clusters = append(clusters, Cluster{Package: k.pkg, Stem: k.stem, Files: files})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Package != clusters[j].Package {
			return clusters[i].Package < clusters[j].Package
		}
		return clusters[i].Stem < clusters[j].Stem
	})
	return clusters
}

// FromFiles builds clusters from a plain file list, independent of pair
// findings. Structurally dissimilar files named client-v2.rs and
// client.rs still cluster by stem.
func FromFiles(files []string, opts Options, exists func(string) bool) []Cluster {
	pseudo := make([]similarity.Pair, 0, len(files))
	for _, f := range files {
		pseudo = append(pseudo, similarity.Pair{
			A: models.Region{File: f},
			B: models.Region{File: f},
		})
	}
	return FromPairs(pseudo, opts, exists)
}

// Classify maps a cluster's size onto a severity. Clusters below the warn
// threshold are not findings.
func Classify(c Cluster, opts Options) (models.Severity, bool) {
	switch {
	case len(c.Files) >= opts.SizeBlock:
		return models.SeverityBlock, true
	case len(c.Files) >= opts.SizeWarn:
		return models.SeverityWarn, true
	default:
		return "", false
	}
}

// BasenameCollisions finds files sharing both a package root and an exact
// basename. These are warnings, never blocks: per-submodule conventions
// like mod.rs are expected to be excluded by the profile allow-list and
// scope configuration.
func BasenameCollisions(files []string, opts Options, exists func(string) bool) [][]string {
	type key struct {
		pkg  string
		base string
	}
	groups := make(map[key][]string)
	for _, f := range files {
		k := key{
			pkg:  PackageRoot(f, opts.PackageMarkers, opts.RootDir, exists),
			base: filepath.Base(f),
		}
		groups[k] = append(groups[k], f)
	}

	var collisions [][]string
	for _, members := range groups {
		if len(members) > 1 {
			sort.Strings(members)
			collisions = append(collisions, members)
		}
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i][0] < collisions[j][0]
	})
	return collisions
}
