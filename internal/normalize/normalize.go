package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// interpuncts separate name parts in katakana and romanized names.
var interpuncts = map[rune]bool{
	'・': true, // U+30FB katakana middle dot
	'･': true, // U+FF65 half-width katakana middle dot
	'·': true, // U+00B7 middle dot
}

// Name returns the canonical comparison key for a name or cell text.
// Compatibility forms are folded (full-width Latin, half-width kana,
// ideographic space), whitespace and interpuncts are removed and the
// result is lower-cased. Name is idempotent.
func Name(text string) string {
	if text == "" {
		return ""
	}

	folded := norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || interpuncts[r] {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(strings.ToLower(b.String()))
}

// Equal reports whether a and b reduce to the same non-empty key.
func Equal(a, b string) bool {
	ka := Name(a)
	return ka != "" && ka == Name(b)
}

// Contains reports whether cell contains the raw query text. It tolerates
// honorifics or affiliations printed in the same cell as the name.
func Contains(cell, query string) bool {
	return query != "" && strings.Contains(cell, query)
}
