package parse

import (
	"regexp"
	"strings"
)

// romanLabel matches a Roman-numeral production-unit label within a segment.
var romanLabel = regexp.MustCompile(`\b[IVXLCDM]+\b`)

// UnknownUnit is the literal cell value that overrides a manuscript's
// numeric unit count.
const UnknownUnit = "Unknown"

// ProductionUnits extracts unit labels from a production-unit cell. The cell
// splits like a token list; each segment contributes its first Roman-numeral
// pattern, or the whole trimmed segment when no pattern is found. Labels are
// deduplicated case-insensitively, first-seen form preserved.
func ProductionUnits(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, seg := range Tokens(raw) {
		label := romanLabel.FindString(seg)
		if label == "" {
			label = seg
		}
		f := Fold(label)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, label)
	}
	return out
}

// HasUnknownUnit reports whether the cell is the literal "Unknown" marker.
func HasUnknownUnit(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), UnknownUnit)
}
