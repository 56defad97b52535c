package clusters

import (
	"testing"

	"github.com/clonegate/clonegate/pkg/lang"
)

func TestExtractSymbolsGo(t *testing.T) {
	content := []byte(`package server

func ParseRequest(r *Request) error {
	return nil
}

func internalHelper() {}

type ConnectionPool struct {
	size int
}

func New() *ConnectionPool { return nil }
`)
	symbols := ExtractSymbols("server.go", content, lang.ProfileFor(lang.LangGo))

	names := make(map[string]int)
	for _, s := range symbols {
		names[s.Name]++
	}
	if names["ParseRequest"] != 1 {
		t.Errorf("expected ParseRequest, got %v", names)
	}
	if names["ConnectionPool"] != 1 {
		t.Errorf("expected ConnectionPool, got %v", names)
	}
	if names["internalHelper"] != 0 {
		t.Error("unexported function should not be a public symbol")
	}
	// "New" is on the idiomatic allow-list.
	if names["New"] != 0 {
		t.Error("allow-listed name should be excluded")
	}
}

func TestExtractSymbolsRust(t *testing.T) {
	content := []byte(`use std::io;

pub fn decode_frame(buf: &[u8]) -> Frame {
}

pub struct Connection {
}

fn private_helper() {}
`)
	symbols := ExtractSymbols("lib.rs", content, lang.ProfileFor(lang.LangRust))
	if len(symbols) != 2 {
		t.Fatalf("symbols = %d, want 2 (%v)", len(symbols), symbols)
	}
	if symbols[0].Name != "decode_frame" || symbols[0].Line != 3 {
		t.Errorf("first symbol = %+v", symbols[0])
	}
	if symbols[1].Name != "Connection" {
		t.Errorf("second symbol = %+v", symbols[1])
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name string
		want SymbolBucket
	}{
		{"ConnectionPool", BucketTypeLike},
		{"parseRequest", BucketFunctionLike},
		{"decode_frame", BucketFunctionLike},
		{"ReaderTrait", BucketInterfaceLike},
		{"StoreInterface", BucketInterfaceLike},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.name); got != tt.want {
			t.Errorf("BucketFor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCountDuplicates(t *testing.T) {
	symbols := []Symbol{
		{Name: "ParseRequest", File: "a.go"},
		{Name: "ParseRequest", File: "b.go"},
		{Name: "ParseRequest", File: "c.go"},
		{Name: "unique", File: "a.go"},
		{Name: "fetchRow", File: "a.go"},
		{Name: "fetchRow", File: "d.go"},
	}

	dup := CountDuplicates(symbols)
	if dup.Counts[BucketTypeLike] != 3 {
		t.Errorf("type-like count = %d, want 3", dup.Counts[BucketTypeLike])
	}
	if dup.Counts[BucketFunctionLike] != 2 {
		t.Errorf("function-like count = %d, want 2", dup.Counts[BucketFunctionLike])
	}
	if len(dup.Names[BucketTypeLike]) != 1 {
		t.Errorf("type-like names = %v", dup.Names[BucketTypeLike])
	}
}

// Duplicate counts at the baseline pass; one over the baseline blocks.
func TestCheckRegressionBaseline(t *testing.T) {
	if got := CheckRegression(250, 250); got != RegressionNear {
		t.Errorf("250/250 = %v, want near-miss warning", got)
	}
	if got := CheckRegression(251, 250); got != RegressionExceeded {
		t.Errorf("251/250 = %v, want exceeded", got)
	}
	if got := CheckRegression(100, 250); got != RegressionNone {
		t.Errorf("100/250 = %v, want none", got)
	}
	if got := CheckRegression(224, 250); got != RegressionNone {
		t.Errorf("224/250 = %v, want none (below 90%%)", got)
	}
	if got := CheckRegression(225, 250); got != RegressionNear {
		t.Errorf("225/250 = %v, want near-miss at 90%%", got)
	}
	// Zero baseline disables the bucket.
	if got := CheckRegression(500, 0); got != RegressionNone {
		t.Errorf("baseline 0 should disable the check, got %v", got)
	}
}
