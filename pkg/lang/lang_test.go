package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"main.go", LangGo},
		{"lib.rs", LangRust},
		{"script.py", LangPython},
		{"app.ts", LangTypeScript},
		{"app.tsx", LangTypeScript},
		{"index.js", LangJavaScript},
		{"Main.java", LangJava},
		{"util.c", LangC},
		{"util.hpp", LangCPP},
		{"Program.cs", LangCSharp},
		{"App.kt", LangKotlin},
		{"worker.rb", LangRuby},
		{"index.php", LangPHP},
		{"README.md", LangUnknown},
		{"Makefile", LangUnknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestProfileForCoversAllLanguages(t *testing.T) {
	langs := []Language{
		LangGo, LangRust, LangPython, LangTypeScript, LangJavaScript,
		LangJava, LangC, LangCPP, LangCSharp, LangKotlin, LangRuby, LangPHP,
	}
	for _, l := range langs {
		p := ProfileFor(l)
		if p == nil {
			t.Fatalf("ProfileFor(%v) returned nil", l)
		}
		if p.Language != l {
			t.Errorf("profile for %v carries language %v", l, p.Language)
		}
		if p.StringLit == nil || p.NumberLit == nil || p.Identifier == nil {
			t.Errorf("profile for %v is missing literal patterns", l)
		}
		if p.RegionStart == nil || p.PublicDecl == nil {
			t.Errorf("profile for %v is missing region/declaration patterns", l)
		}
	}
	if ProfileFor(LangUnknown) != nil {
		t.Error("ProfileFor(LangUnknown) should be nil")
	}
}

func TestRegionStart(t *testing.T) {
	tests := []struct {
		lang Language
		text string
		want bool
	}{
		{LangGo, "func main() {", true},
		{LangGo, "type Server struct {", true},
		{LangGo, "var x = 1", false},
		{LangRust, "pub fn parse(input: &str) -> Result<(), Error> {", true},
		{LangRust, "let x = 1;", false},
		{LangPython, "def handler(event):", true},
		{LangTypeScript, "export function render() {", true},
		{LangTypeScript, "const handler = (req) => {", true},
		{LangJava, "public void start() {", true},
	}

	for _, tt := range tests {
		p := ProfileFor(tt.lang)
		if got := p.RegionStart.MatchString(tt.text); got != tt.want {
			t.Errorf("%v RegionStart(%q) = %v, want %v", tt.lang, tt.text, got, tt.want)
		}
	}
}

func TestPublicDecl(t *testing.T) {
	tests := []struct {
		lang Language
		line string
		want string
	}{
		{LangGo, "func ParseConfig(path string) error {", "ParseConfig"},
		{LangGo, "func (s *Server) handle() {", ""},
		{LangGo, "type Registry struct {", "Registry"},
		{LangRust, "pub fn decode(buf: &[u8]) -> Frame {", "decode"},
		{LangRust, "pub struct Connection {", "Connection"},
		{LangRust, "fn private_helper() {", ""},
		{LangPython, "def process(items):", "process"},
		{LangPython, "class Pipeline:", "Pipeline"},
		{LangTypeScript, "export class Router {", "Router"},
		{LangTypeScript, "export const retry = () => {", ""},
	}

	for _, tt := range tests {
		p := ProfileFor(tt.lang)
		m := p.PublicDecl.FindStringSubmatch(tt.line)
		got := ""
		if m != nil {
			got = m[1]
		}
		if got != tt.want {
			t.Errorf("%v PublicDecl(%q) = %q, want %q", tt.lang, tt.line, got, tt.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	goProfile := ProfileFor(LangGo)
	for _, kw := range []string{"func", "return", "if", "range", "nil"} {
		if !goProfile.IsKeyword(kw) {
			t.Errorf("expected %q to be a Go keyword", kw)
		}
	}
	for _, id := range []string{"server", "Handler", "x"} {
		if goProfile.IsKeyword(id) {
			t.Errorf("expected %q to not be a Go keyword", id)
		}
	}
}

func TestIsIdiomaticName(t *testing.T) {
	for _, name := range []string{"new", "New", "Default", "clone", "Build"} {
		if !IsIdiomaticName(name) {
			t.Errorf("expected %q to be idiomatic", name)
		}
	}
	for _, name := range []string{"FetchUserProfile", "RetryBudget"} {
		if IsIdiomaticName(name) {
			t.Errorf("expected %q to not be idiomatic", name)
		}
	}
}
