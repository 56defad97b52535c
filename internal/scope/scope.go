// Package scope resolves which files an analysis run should look at.
//
// Three scopes are supported: commit (files staged in the index), push
// (files that differ from the upstream branch) and ci (every tracked
// source file). Providers return file contents along with detected
// languages so downstream stages never touch the filesystem themselves.
package scope

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/clonegate/clonegate/pkg/config"
	"github.com/clonegate/clonegate/pkg/lang"
)

// Scope selects which files a run analyzes.
type Scope string

const (
	// ScopeCommit analyzes files staged for commit.
	ScopeCommit Scope = "commit"
	// ScopePush analyzes files changed relative to the upstream branch.
	ScopePush Scope = "push"
	// ScopeCI analyzes the full tree.
	ScopeCI Scope = "ci"
)

// ParseScope validates a scope name from the command line.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeCommit, ScopePush, ScopeCI:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown context %q (want commit, push or ci)", s)
}

// File is a source file selected for analysis.
type File struct {
	Path     string
	Language lang.Language
	Content  []byte
}

// Provider resolves the files covered by a scope.
type Provider interface {
	Files(ctx context.Context, scope Scope) ([]File, error)
}

// Filter decides whether a path participates in analysis based on the
// configured exclusions and language support.
type Filter struct {
	cfg     *config.Config
	matcher gitignore.Matcher
}

// NewFilter creates a path filter from configuration. Exclude patterns
// use gitignore syntax.
func NewFilter(cfg *config.Config) *Filter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var patterns []gitignore.Pattern
	for _, p := range cfg.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	f := &Filter{cfg: cfg}
	if len(patterns) > 0 {
		f.matcher = gitignore.NewMatcher(patterns)
	}
	return f
}

// Admit reports whether a path should be analyzed and its detected
// language. Content is used only for binary sniffing and may be nil
// when the caller has not read the file yet.
func (f *Filter) Admit(path string, content []byte) (lang.Language, bool) {
	l := lang.Detect(path)
	if l == lang.LangUnknown {
		return l, false
	}
	if f.inExcludedDir(path) {
		return l, false
	}
	if f.matcher != nil && f.matcher.Match(strings.Split(filepath.ToSlash(path), "/"), false) {
		return l, false
	}
	if !f.cfg.ConsiderTestFiles && IsTestFile(path) {
		return l, false
	}
	if content != nil && isBinary(content) {
		return l, false
	}
	return l, true
}

func (f *Filter) inExcludedDir(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range parts[:max(len(parts)-1, 0)] {
		for _, dir := range f.cfg.Exclude.Dirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}

// IsTestFile reports whether a path looks like a test file in any of
// the supported languages' conventions.
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	slash := filepath.ToSlash(path)
	for _, dir := range []string{"/test/", "/tests/", "/__tests__/", "/spec/"} {
		if strings.Contains(slash, dir) || strings.HasPrefix(slash, dir[1:]) {
			return true
		}
	}
	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasSuffix(base, "_test.py"),
		strings.HasSuffix(base, "_test.rb"),
		strings.HasSuffix(base, "_spec.rb"),
		strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"),
		strings.HasSuffix(base, "Test.java"),
		strings.HasSuffix(base, "Tests.java"),
		strings.HasSuffix(base, "Test.kt"):
		return true
	}
	for _, infix := range []string{".test.", ".spec."} {
		if strings.Contains(base, infix) {
			return true
		}
	}
	return false
}

// isBinary sniffs for NUL bytes in the leading chunk of a file, the
// same heuristic git uses.
func isBinary(content []byte) bool {
	n := len(content)
	if n > 8000 {
		n = 8000
	}
	for _, b := range content[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}

// Memory is an in-memory Provider for tests and programmatic use. All
// scopes return the same file set after filtering.
type Memory struct {
	filter *Filter
	files  []File
}

// NewMemory creates a Memory provider over pre-loaded file contents.
func NewMemory(cfg *config.Config, files map[string][]byte) *Memory {
	m := &Memory{filter: NewFilter(cfg)}
	for path, content := range files {
		if l, ok := m.filter.Admit(path, content); ok {
			m.files = append(m.files, File{Path: path, Language: l, Content: content})
		}
	}
	sort.Slice(m.files, func(i, j int) bool { return m.files[i].Path < m.files[j].Path })
	return m
}

// Files implements Provider.
func (m *Memory) Files(_ context.Context, _ Scope) ([]File, error) {
	return m.files, nil
}
