package parse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper removes combining marks after canonical decomposition,
// so "Grágás" and "Gragas" fold to the same form.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the case-, whitespace-, and diacritic-insensitive form of s
// used for token deduplication and comparison.
func Fold(s string) string {
	folded, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Tokens splits a multi-valued cell on semicolons (newlines normalized to
// semicolons first) into trimmed non-empty tokens, deduplicated by Fold while
// preserving first-seen casing for display.
func Tokens(raw string) []string {
	normalized := strings.NewReplacer("\r\n", ";", "\n", ";", "\r", ";").Replace(raw)

	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(normalized, ";") {
		tok := strings.TrimSpace(part)
		if tok == "" {
			continue
		}
		f := Fold(tok)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, tok)
	}
	return out
}
