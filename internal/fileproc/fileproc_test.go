package fileproc

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/clonegate/clonegate/internal/scope"
)

func testFiles(paths ...string) []scope.File {
	files := make([]scope.File, len(paths))
	for i, p := range paths {
		files[i] = scope.File{Path: p, Content: []byte(p)}
	}
	return files
}

func TestMapCollectsAllResults(t *testing.T) {
	files := testFiles("a.go", "b.go", "c.go", "d.go")
	results, errs := Map(context.Background(), files, 2, func(f scope.File) (string, error) {
		return f.Path, nil
	}, nil)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sort.Strings(results)
	want := []string{"a.go", "b.go", "c.go", "d.go"}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, results[i], want[i])
		}
	}
}

func TestMapEmptyInput(t *testing.T) {
	results, errs := Map(context.Background(), nil, 4, func(f scope.File) (int, error) {
		return 0, nil
	}, nil)
	if results != nil || errs != nil {
		t.Errorf("empty input should return nil, nil; got %v, %v", results, errs)
	}
}

func TestMapCollectsErrorsWithoutStopping(t *testing.T) {
	files := testFiles("good.go", "bad.go", "also-good.go")
	failed := errors.New("unreadable")
	results, errs := Map(context.Background(), files, 1, func(f scope.File) (string, error) {
		if f.Path == "bad.go" {
			return "", failed
		}
		return f.Path, nil
	}, nil)
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
	if errs == nil || !errs.HasErrors() {
		t.Fatal("expected collected errors")
	}
	all := errs.All()
	if len(all) != 1 || all[0].Path != "bad.go" {
		t.Errorf("unexpected errors: %v", all)
	}
}

func TestMapProgressCallback(t *testing.T) {
	files := testFiles("a.go", "b.go", "c.go")
	var ticks atomic.Int64
	_, _ = Map(context.Background(), files, 2, func(f scope.File) (int, error) {
		if f.Path == "b.go" {
			return 0, errors.New("boom")
		}
		return 0, nil
	}, func() { ticks.Add(1) })
	if got := ticks.Load(); got != 3 {
		t.Errorf("progress ticks = %d, want 3 (errors still count)", got)
	}
}

func TestMapCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := testFiles("a.go", "b.go")
	_, errs := Map(ctx, files, 2, func(f scope.File) (string, error) {
		return f.Path, nil
	}, nil)
	if errs == nil || !errs.HasErrors() {
		t.Error("cancelled context should surface context errors")
	}
}
