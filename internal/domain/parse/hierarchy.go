package parse

import "strings"

// SplitHierarchy splits a main-text value into its group (text up to the
// first parenthesis, trimmed) and variant (the parenthesized suffix, trimmed,
// empty when there is none).
func SplitHierarchy(raw string) (group, variant string) {
	before, after, found := strings.Cut(raw, "(")
	group = strings.TrimSpace(before)
	if !found {
		return group, ""
	}
	variant = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), ")"))
	return group, variant
}
