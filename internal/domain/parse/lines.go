package parse

import (
	"regexp"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	approxPrefix  = regexp.MustCompile(`(?i)^c(?:a)?\.\s*`)
	lineRange     = regexp.MustCompile(`^(\d+)\s*[-\x{2013}]\s*(\d+)$`)
	lineSingle    = regexp.MustCompile(`^(\d+)$`)
)

// Lines parses a line-count cell. Parenthetical asides and leading
// approximation markers ("ca.", "c.") are stripped first. A numeric range
// "A-B" yields sorted bounds, a single integer yields min==max. When the
// cleaned text is not numeric, ok is false and text carries the cleaned value
// verbatim so it can still be offered as a literal facet option.
func Lines(raw string) (min, max int, text string, ok bool) {
	cleaned := parenthetical.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = approxPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if m := lineRange.FindStringSubmatch(cleaned); m != nil {
		a, b := atoi(m[1]), atoi(m[2])
		if a > b {
			a, b = b, a
		}
		return a, b, "", true
	}
	if m := lineSingle.FindStringSubmatch(cleaned); m != nil {
		n := atoi(m[1])
		return n, n, "", true
	}
	return 0, 0, cleaned, false
}
