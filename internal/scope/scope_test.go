package scope

import (
	"context"
	"testing"

	"github.com/clonegate/clonegate/pkg/config"
	"github.com/clonegate/clonegate/pkg/lang"
)

func TestParseScope(t *testing.T) {
	for _, valid := range []string{"commit", "push", "ci"} {
		if _, err := ParseScope(valid); err != nil {
			t.Errorf("ParseScope(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseScope("staged"); err == nil {
		t.Error("ParseScope should reject unknown scope names")
	}
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"pkg/server/server_test.go", true},
		{"pkg/server/server.go", false},
		{"test_handlers.py", true},
		{"src/app.spec.ts", true},
		{"src/components/Button.test.tsx", true},
		{"tests/conftest.py", true},
		{"src/__tests__/util.js", true},
		{"spec/models/user_spec.rb", true},
		{"com/example/FooTest.java", true},
		{"src/contest.py", false},
		{"src/latest.go", false},
	}
	for _, tt := range tests {
		if got := IsTestFile(tt.path); got != tt.want {
			t.Errorf("IsTestFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFilterAdmit(t *testing.T) {
	cfg := config.DefaultConfig()
	f := NewFilter(cfg)

	if _, ok := f.Admit("main.go", []byte("package main")); !ok {
		t.Error("plain Go file should be admitted")
	}
	if l, _ := f.Admit("main.go", nil); l != lang.LangGo {
		t.Errorf("language = %v, want go", l)
	}
	if _, ok := f.Admit("README.md", nil); ok {
		t.Error("unsupported extension should be rejected")
	}
	if _, ok := f.Admit("vendor/dep/dep.go", nil); ok {
		t.Error("excluded directory should be rejected")
	}
	if _, ok := f.Admit("pkg/a_test.go", nil); ok {
		t.Error("test files rejected by default")
	}
	if _, ok := f.Admit("app.min.js", nil); ok {
		t.Error("default exclude patterns should reject minified files")
	}
	if _, ok := f.Admit("blob.go", []byte("abc\x00def")); ok {
		t.Error("binary content should be rejected")
	}
}

func TestFilterConsiderTestFiles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ConsiderTestFiles = true
	f := NewFilter(cfg)
	if _, ok := f.Admit("pkg/a_test.go", nil); !ok {
		t.Error("test files admitted when consider_test_files is set")
	}
}

func TestFilterExcludePatterns(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "generated/**", "*.pb.go")
	f := NewFilter(cfg)

	if _, ok := f.Admit("generated/api.go", nil); ok {
		t.Error("gitignore-style directory pattern should apply")
	}
	if _, ok := f.Admit("pkg/api.pb.go", nil); ok {
		t.Error("gitignore-style glob pattern should apply")
	}
	if _, ok := f.Admit("pkg/api.go", nil); !ok {
		t.Error("unmatched path should pass")
	}
}

func TestMemoryProvider(t *testing.T) {
	m := NewMemory(nil, map[string][]byte{
		"a.go":      []byte("package a"),
		"b_test.go": []byte("package a"),
		"notes.txt": []byte("hello"),
	})
	files, err := m.Files(context.Background(), ScopeCommit)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path != "a.go" {
		t.Errorf("unexpected files: %+v", files)
	}
}
