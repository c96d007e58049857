// Package parse turns the catalog's free-form cell texts into typed values.
// Every parser degrades to a "not parseable" result instead of erroring;
// unparseable cells are simply excluded from range filtering and statistics.
package parse

import (
	"regexp"
	"strconv"
)

var (
	// "1350-1375", also en/em dash variants; the first year wins.
	datingRange = regexp.MustCompile(`(\d{4})\s*[-\x{2013}\x{2014}]\s*\d{4}`)
	// A single four-digit year not embedded in a longer token.
	datingYear = regexp.MustCompile(`\b(\d{4})\b`)
	// Century shorthand like "1200s" -> midpoint 1250.
	datingDecades = regexp.MustCompile(`\b(\d{3})0s\b`)
	// "14th century", "2nd cent." -> century midpoint.
	datingCentury = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\s+cent(?:ury|\.)`)
)

// DatingYear extracts a representative year from a dating cell.
// Precedence: year range (first year), bare four-digit year, "NNN0s"
// shorthand (midpoint), ordinal century phrase (midpoint). ok is false when
// nothing matches.
func DatingYear(s string) (year int, ok bool) {
	if m := datingRange.FindStringSubmatch(s); m != nil {
		return atoi(m[1]), true
	}
	if m := datingYear.FindStringSubmatch(s); m != nil {
		return atoi(m[1]), true
	}
	if m := datingDecades.FindStringSubmatch(s); m != nil {
		return atoi(m[1])*10 + 50, true
	}
	if m := datingCentury.FindStringSubmatch(s); m != nil {
		return (atoi(m[1])-1)*100 + 50, true
	}
	return 0, false
}

// atoi converts digits already validated by a regexp.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
