// Package fileproc provides bounded concurrent processing of scoped files.
package fileproc

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/clonegate/clonegate/internal/scope"
)

// DefaultWorkers bounds the pool when no worker count is configured.
const DefaultWorkers = 8

// Error records a failure while processing a single file.
type Error struct {
	Path string
	Err  error
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Errors collects per-file failures across workers.
type Errors struct {
	mu   sync.Mutex
	errs []Error
}

// Add appends an error. Safe for concurrent use.
func (e *Errors) Add(path string, err error) {
	e.mu.Lock()
	e.errs = append(e.errs, Error{Path: path, Err: err})
	e.mu.Unlock()
}

// All returns the collected errors.
func (e *Errors) All() []Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errs
}

// HasErrors reports whether any file failed.
func (e *Errors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs) > 0
}

func (e *Errors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return "no errors"
	}
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	return fmt.Sprintf("%d files failed (first: %v)", len(e.errs), e.errs[0])
}

// ProgressFunc is called once per file after it is processed.
type ProgressFunc func()

// Map runs fn over files with at most workers goroutines and returns
// results in arbitrary order. Individual file errors do not stop the
// pool; they are collected and returned alongside the successful
// results. Cancelling ctx stops scheduling of remaining files.
func Map[T any](ctx context.Context, files []scope.File, workers int, fn func(scope.File) (T, error), onProgress ProgressFunc) ([]T, *Errors) {
	if len(files) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]T, 0, len(files))
	errs := &Errors{}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for _, f := range files {
		f := f
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				errs.Add(f.Path, ctx.Err())
				return ctx.Err()
			default:
			}

			result, err := fn(f)
			if onProgress != nil {
				onProgress()
			}
			if err != nil {
				errs.Add(f.Path, err)
				return nil
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = p.Wait() // context errors are already in errs

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
