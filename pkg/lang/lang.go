// Package lang defines per-language lexical profiles used by the
// similarity pipeline. A profile carries the compiled patterns needed to
// strip comments, collapse literals, and recognize region and declaration
// openers for one language. Profiles are built once at init and are
// immutable afterwards.
package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language identifies a supported programming language.
type Language string

const (
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangJava       Language = "java"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangKotlin     Language = "kotlin"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangUnknown    Language = "unknown"
)

// String returns the language identifier.
func (l Language) String() string {
	return string(l)
}

// Detect determines the language of a file from its extension.
func Detect(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return LangGo
	case ".rs":
		return LangRust
	case ".py":
		return LangPython
	case ".ts", ".tsx":
		return LangTypeScript
	case ".js", ".jsx", ".mjs":
		return LangJavaScript
	case ".java":
		return LangJava
	case ".c", ".h":
		return LangC
	case ".cpp", ".cc", ".cxx", ".hpp", ".hh":
		return LangCPP
	case ".cs":
		return LangCSharp
	case ".kt", ".kts":
		return LangKotlin
	case ".rb":
		return LangRuby
	case ".php":
		return LangPHP
	default:
		return LangUnknown
	}
}

// Profile holds the lexical rules for one language.
type Profile struct {
	Language Language

	// BlockComment matches /* ... */ style comments (nil if the language
	// has none). Applied before LineComment.
	BlockComment *regexp.Regexp
	// LineComment matches a line comment to end of line.
	LineComment *regexp.Regexp
	// StringLit matches a string literal including its quotes.
	StringLit *regexp.Regexp
	// NumberLit matches a numeric literal.
	NumberLit *regexp.Regexp
	// Identifier matches an identifier-shaped substring.
	Identifier *regexp.Regexp
	// RegionStart reports whether a block of raw text opens a function,
	// type, or class. Blocks that never match are not duplication
	// candidates.
	RegionStart *regexp.Regexp
	// PublicDecl matches a declared top-level public symbol and captures
	// its name in group 1.
	PublicDecl *regexp.Regexp

	// Keywords are preserved verbatim during normalization; every other
	// identifier collapses to a generic token.
	Keywords map[string]bool
}

// IsKeyword reports whether tok is preserved during normalization.
func (p *Profile) IsKeyword(tok string) bool {
	return p.Keywords[tok]
}

var (
	cStyleBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cStyleLineComment  = regexp.MustCompile(`//[^\n]*`)
	hashLineComment    = regexp.MustCompile(`#[^\n]*`)
	commonString       = regexp.MustCompile("\"(?:\\\\.|[^\"\\\\])*\"|'(?:\\\\.|[^'\\\\])*'|`[^`]*`")
	commonNumber       = regexp.MustCompile(`\b\d[\d_]*(?:\.\d+)?(?:[eE][+-]?\d+)?\b|\b0[xXbBoO][0-9a-fA-F_]+\b`)
	commonIdentifier   = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var profiles = map[Language]*Profile{
	LangGo: {
		Language:     LangGo,
		BlockComment: cStyleBlockComment,
		LineComment:  cStyleLineComment,
		StringLit:    commonString,
		NumberLit:    commonNumber,
		Identifier:   commonIdentifier,
		RegionStart:  regexp.MustCompile(`\b(?:func|type)\s`),
		PublicDecl:   regexp.MustCompile(`^\s*(?:func(?:\s*\([^)]*\))?|type|var|const)\s+([A-Z][A-Za-z0-9_]*)`),
		Keywords: keywordSet(
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select",
			"struct", "switch", "type", "var", "nil", "true", "false",
		),
	},
	LangRust: {
		Language:     LangRust,
		BlockComment: cStyleBlockComment,
		LineComment:  cStyleLineComment,
		StringLit:    commonString,
		NumberLit:    commonNumber,
		Identifier:   commonIdentifier,
		RegionStart:  regexp.MustCompile(`\b(?:fn|impl|trait|struct|enum)\b`),
		PublicDecl:   regexp.MustCompile(`^\s*pub\s+(?:async\s+)?(?:fn|struct|enum|trait|type|const|static)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		Keywords: keywordSet(
			"as", "async", "await", "break", "const", "continue", "crate",
			"dyn", "else", "enum", "extern", "fn", "for", "if", "impl", "in",
			"let", "loop", "match", "mod", "move", "mut", "pub", "ref",
			"return", "self", "Self", "static", "struct", "trait", "type",
			"unsafe", "use", "where", "while", "true", "false",
		),
	},
	LangPython: {
		Language:    LangPython,
		LineComment: hashLineComment,
		StringLit:   commonString,
		NumberLit:   commonNumber,
		Identifier:  commonIdentifier,
		RegionStart: regexp.MustCompile(`\b(?:def|class)\s`),
		PublicDecl:  regexp.MustCompile(`^(?:def|class)\s+([A-Za-z][A-Za-z0-9_]*)`),
		Keywords: keywordSet(
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield", "None", "True", "False",
		),
	},
	LangTypeScript: {
		Language:     LangTypeScript,
		BlockComment: cStyleBlockComment,
		LineComment:  cStyleLineComment,
		StringLit:    commonString,
		NumberLit:    commonNumber,
		Identifier:   commonIdentifier,
		RegionStart:  regexp.MustCompile(`\b(?:function|class|interface)\b|=>\s*\{`),
		PublicDecl:   regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|interface|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
		Keywords: keywordSet(
			"abstract", "as", "async", "await", "break", "case", "catch",
			"class", "const", "continue", "default", "delete", "do", "else",
			"enum", "export", "extends", "finally", "for", "function", "if",
			"implements", "import", "in", "instanceof", "interface", "let",
			"new", "of", "private", "protected", "public", "readonly",
			"return", "static", "super", "switch", "this", "throw", "try",
			"type", "typeof", "var", "void", "while", "yield", "null",
			"undefined", "true", "false",
		),
	},
	LangJava: {
		Language:     LangJava,
		BlockComment: cStyleBlockComment,
		LineComment:  cStyleLineComment,
		StringLit:    commonString,
		NumberLit:    commonNumber,
		Identifier:   commonIdentifier,
		RegionStart:  regexp.MustCompile(`\b(?:class|interface|enum|record)\b|\)\s*\{`),
		PublicDecl:   regexp.MustCompile(`^\s*public\s+(?:static\s+|final\s+|abstract\s+)*(?:class|interface|enum|record)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		Keywords: keywordSet(
			"abstract", "assert", "boolean", "break", "byte", "case", "catch",
			"char", "class", "continue", "default", "do", "double", "else",
			"enum", "extends", "final", "finally", "float", "for", "if",
			"implements", "import", "instanceof", "int", "interface", "long",
			"native", "new", "package", "private", "protected", "public",
			"record", "return", "short", "static", "super", "switch",
			"synchronized", "this", "throw", "throws", "try", "void",
			"volatile", "while", "null", "true", "false",
		),
	},
	LangC: {
		Language:     LangC,
		BlockComment: cStyleBlockComment,
		LineComment:  cStyleLineComment,
		StringLit:    commonString,
		NumberLit:    commonNumber,
		Identifier:   commonIdentifier,
		RegionStart:  regexp.MustCompile(`\)\s*\{|\b(?:struct|enum|union)\s+[A-Za-z_]`),
		PublicDecl:   regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_*\s]*\s\*?([A-Za-z_][A-Za-z0-9_]*)\s*\(`),
		Keywords: keywordSet(
			"auto", "break", "case", "char", "const", "continue", "default",
			"do", "double", "else", "enum", "extern", "float", "for", "goto",
			"if", "inline", "int", "long", "register", "return", "short",
			"signed", "sizeof", "static", "struct", "switch", "typedef",
			"union", "unsigned", "void", "volatile", "while",
		),
	},
	LangRuby: {
		Language:    LangRuby,
		LineComment: hashLineComment,
		StringLit:   commonString,
		NumberLit:   commonNumber,
		Identifier:  commonIdentifier,
		RegionStart: regexp.MustCompile(`\b(?:def|class|module)\s`),
		PublicDecl:  regexp.MustCompile(`^\s*(?:def|class|module)\s+(?:self\.)?([A-Za-z_][A-Za-z0-9_?!]*)`),
		Keywords: keywordSet(
			"alias", "and", "begin", "break", "case", "class", "def", "do",
			"else", "elsif", "end", "ensure", "for", "if", "in", "module",
			"next", "not", "or", "redo", "rescue", "retry", "return", "self",
			"super", "then", "unless", "until", "when", "while", "yield",
			"nil", "true", "false",
		),
	},
	LangPHP: {
		Language:     LangPHP,
		BlockComment: cStyleBlockComment,
		LineComment:  regexp.MustCompile(`(?://|#)[^\n]*`),
		StringLit:    commonString,
		NumberLit:    commonNumber,
		Identifier:   regexp.MustCompile(`\$?[A-Za-z_][A-Za-z0-9_]*`),
		RegionStart:  regexp.MustCompile(`\b(?:function|class|interface|trait)\b`),
		PublicDecl:   regexp.MustCompile(`^\s*(?:(?:public|final|abstract)\s+)*(?:function|class|interface|trait)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		Keywords: keywordSet(
			"abstract", "array", "as", "break", "case", "catch", "class",
			"clone", "const", "continue", "declare", "default", "do", "echo",
			"else", "elseif", "extends", "final", "finally", "for", "foreach",
			"function", "global", "if", "implements", "instanceof",
			"interface", "namespace", "new", "private", "protected", "public",
			"return", "static", "switch", "throw", "trait", "try", "use",
			"while", "yield", "null", "true", "false",
		),
	},
}

func init() {
	// JavaScript, C#, C++, and Kotlin share the lexical shape of their
	// nearest profile; only the language tag differs.
	js := *profiles[LangTypeScript]
	js.Language = LangJavaScript
	profiles[LangJavaScript] = &js

	cpp := *profiles[LangC]
	cpp.Language = LangCPP
	profiles[LangCPP] = &cpp

	cs := *profiles[LangJava]
	cs.Language = LangCSharp
	profiles[LangCSharp] = &cs

	kt := *profiles[LangJava]
	kt.Language = LangKotlin
	kt.RegionStart = regexp.MustCompile(`\b(?:fun|class|interface|object)\b`)
	kt.PublicDecl = regexp.MustCompile(`^\s*(?:fun|class|interface|object)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	profiles[LangKotlin] = &kt
}

// ProfileFor returns the profile for a language, or nil for LangUnknown.
func ProfileFor(l Language) *Profile {
	return profiles[l]
}

// idiomaticNames are conventional public symbol names that legitimately
// recur across files and are excluded from symbol collision analysis.
var idiomaticNames = map[string]bool{
	"new": true, "default": true, "clone": true, "build": true,
	"builder": true, "main": true, "init": true, "run": true,
	"from": true, "into": true, "get": true, "set": true,
	"fmt": true, "display": true, "drop": true, "len": true,
	"iter": true, "next": true, "parse": true, "create": true,
	"close": true, "open": true, "read": true, "write": true,
	"error": true, "string": true, "config": true, "options": true,
}

// IsIdiomaticName reports whether a public symbol name is on the curated
// allow-list. Matching is case-insensitive.
func IsIdiomaticName(name string) bool {
	return idiomaticNames[strings.ToLower(name)]
}
