// Package manuscript groups row records into manuscripts by key.
package manuscript

import (
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
)

// Manuscript is a key plus the ordered rows sharing it. Rows keep their
// original source order; display sorting is a derived ordering elsewhere and
// never reorders the block.
type Manuscript struct {
	key  record.Key
	rows []*record.Record
}

// Key returns the manuscript key. Zero when both key parts are blank.
func (m *Manuscript) Key() record.Key { return m.key }

// Rows returns the rows in original order. Callers must not mutate it.
func (m *Manuscript) Rows() []*record.Record { return m.rows }

// Len returns the number of rows in the block.
func (m *Manuscript) Len() int { return len(m.rows) }

// AnyRow reports whether any row satisfies the predicate. Manuscript-level
// facet matching reduces to this.
func (m *Manuscript) AnyRow(fn func(*record.Record) bool) bool {
	for _, r := range m.rows {
		if fn(r) {
			return true
		}
	}
	return false
}

// Group buckets rows into manuscripts by key. First occurrence of a key fixes
// the manuscript's position in the output (stable insertion-order grouping,
// never sorted). Rows with a zero key are retained in their own group; such a
// group is not a valid merge-engine input. Empty input yields empty output.
func Group(rows []*record.Record) []*Manuscript {
	var out []*Manuscript
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		k := r.Key()
		id := k.String()
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, &Manuscript{key: k})
		}
		out[i].rows = append(out[i].rows, r)
	}
	return out
}
