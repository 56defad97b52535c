package clusters

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/clonegate/clonegate/pkg/lang"
)

// SymbolBucket is the rough naming-convention partition used for
// regression accounting.
type SymbolBucket string

const (
	BucketTypeLike      SymbolBucket = "type_like"
	BucketFunctionLike  SymbolBucket = "function_like"
	BucketInterfaceLike SymbolBucket = "interface_like"
)

// Symbol is one declared top-level public identifier.
type Symbol struct {
	Name string
	File string
	Line int
}

// ExtractSymbols finds declared public symbols in a file using the
// profile's public-declaration pattern, at most one match per line.
// Names on the idiomatic allow-list are skipped.
func ExtractSymbols(path string, content []byte, p *lang.Profile) []Symbol {
	if p == nil || p.PublicDecl == nil {
		return nil
	}

	var symbols []Symbol
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		m := p.PublicDecl.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := m[1]
		if lang.IsIdiomaticName(name) {
			continue
		}
		symbols = append(symbols, Symbol{Name: name, File: path, Line: line})
	}
	return symbols
}

// BucketFor assigns a symbol name to its convention bucket. The suffix
// check wins over capitalization so FooInterface is interface-like.
func BucketFor(name string) SymbolBucket {
	if strings.HasSuffix(name, "Trait") || strings.HasSuffix(name, "Interface") {
		return BucketInterfaceLike
	}
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return BucketTypeLike
	}
	return BucketFunctionLike
}

// SymbolDuplication counts, per bucket, how many duplicate occurrences
// the symbol set carries. A name declared n times in n>1 places
// contributes n occurrences to its bucket's duplicate total.
type SymbolDuplication struct {
	Counts map[SymbolBucket]int
	// Names maps each bucket to its duplicated names, for reporting.
	Names map[SymbolBucket][]string
}

// CountDuplicates builds the global name occurrence map and partitions
// the duplicated names into buckets.
func CountDuplicates(symbols []Symbol) SymbolDuplication {
	occurrences := make(map[string]int)
	for _, s := range symbols {
		occurrences[s.Name]++
	}

	dup := SymbolDuplication{
		Counts: make(map[SymbolBucket]int),
		Names:  make(map[SymbolBucket][]string),
	}
	for name, count := range occurrences {
		if count < 2 {
			continue
		}
		bucket := BucketFor(name)
		dup.Counts[bucket] += count
		dup.Names[bucket] = append(dup.Names[bucket], name)
	}
	return dup
}

// RegressionVerdict is the outcome of comparing one bucket's duplicate
// count against its baseline.
type RegressionVerdict int

const (
	RegressionNone RegressionVerdict = iota
	RegressionNear
	RegressionExceeded
)

// CheckRegression compares a bucket count with its baseline. Exceeding
// the baseline is a regression; 90-100% of it is a near-miss warning.
// A zero baseline disables the check.
func CheckRegression(count, baseline int) RegressionVerdict {
	if baseline <= 0 {
		return RegressionNone
	}
	if count > baseline {
		return RegressionExceeded
	}
	if float64(count) >= 0.9*float64(baseline) {
		return RegressionNear
	}
	return RegressionNone
}
