package similarity

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/clonegate/clonegate/pkg/lang"
)

// Placeholder tokens emitted during normalization. Collapsing literals to
// fixed tokens is what makes the token stream rename-invariant: renaming
// an identifier or changing a literal value never changes the stream.
const (
	tokenString   = "STR"
	tokenNumber   = "NUM"
	tokenVariable = "VAR"
)

// Normalize converts raw source text into the canonical token stream for
// a language profile: comments stripped (block before line), string and
// numeric literals collapsed to placeholders, identifiers collapsed to a
// generic token unless they are reserved keywords.
func Normalize(text string, p *lang.Profile) []string {
	if p == nil {
		return nil
	}

	if p.BlockComment != nil {
		text = p.BlockComment.ReplaceAllString(text, " ")
	}
	if p.LineComment != nil {
		text = p.LineComment.ReplaceAllString(text, " ")
	}
	text = p.StringLit.ReplaceAllString(text, " "+tokenString+" ")
	text = p.NumberLit.ReplaceAllString(text, " "+tokenNumber+" ")

	text = p.Identifier.ReplaceAllStringFunc(text, func(id string) string {
		if id == tokenString || id == tokenNumber {
			return id
		}
		if p.IsKeyword(id) {
			return id
		}
		return tokenVariable
	})

	return splitTokens(text)
}

// splitTokens breaks normalized text into tokens: each word run is one
// token, every other non-space character stands alone.
func splitTokens(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, c := range text {
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		case isWordRune(c):
			word.WriteRune(c)
		default:
			flush()
			tokens = append(tokens, string(c))
		}
	}
	flush()

	return tokens
}

func isWordRune(c rune) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Fingerprint hashes a normalized token sequence. Two regions with equal
// fingerprints are byte-identical after normalization.
func Fingerprint(tokens []string) uint64 {
	return xxhash.Sum64String(strings.Join(tokens, " "))
}
