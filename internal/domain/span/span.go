// Package span models spreadsheet merge ranges and the per-manuscript span
// map the table renderer consumes.
package span

// Range describes one spreadsheet merge relative to a source: an inclusive
// data-row interval plus an inclusive column interval expressed as
// column-name bounds against the source's full raw column list. Ranges are
// rectangular and axis-aligned; overlapping ranges are tolerated input.
type Range struct {
	MinRow      int
	MaxRow      int
	FirstColumn string
	LastColumn  string
}

// Cell is a 0-based (row, column) position local to one manuscript's block
// and the caller-supplied visible-column order.
type Cell struct {
	Row int
	Col int
}

// Extent is the size of an origin cell's span.
type Extent struct {
	RowSpan int
	ColSpan int
}

// FlagReason is the closed set of degradation paths the merge engine can
// take for an individual range.
type FlagReason string

const (
	// RangeOutOfBounds marks a range whose row interval is not fully
	// contained in the manuscript block.
	RangeOutOfBounds FlagReason = "range_out_of_bounds"
	// UnresolvableColumn marks a range whose column bounds do not resolve
	// against the full column list.
	UnresolvableColumn FlagReason = "unresolvable_column"
	// ColumnsHidden marks a range none of whose columns are visible.
	ColumnsHidden FlagReason = "columns_hidden"
	// SingleCell marks a range that resolved to a 1x1 span.
	SingleCell FlagReason = "single_cell"
	// OriginConflict marks a range that overwrote another range's origin
	// (last write wins; flagged as an input-quality artifact).
	OriginConflict FlagReason = "origin_conflict"
)

// Flag records one range the engine skipped or resolved by tie-break.
type Flag struct {
	Range  Range
	Reason FlagReason
}

// Map is the merge engine's output for one manuscript: origin cells with
// their extents, covered (suppressed) cells, the visible-column order the
// coordinates refer to, and the degradation flags accumulated on the way.
type Map struct {
	origins map[Cell]Extent
	covered map[Cell]struct{}
	columns []string
	flags   []Flag
}

// NewMap creates an empty span map over the given visible-column order.
func NewMap(visibleColumns []string) *Map {
	cols := make([]string, len(visibleColumns))
	copy(cols, visibleColumns)
	return &Map{
		origins: make(map[Cell]Extent),
		covered: make(map[Cell]struct{}),
		columns: cols,
	}
}

// SetOrigin records c as a span origin. It reports whether an origin was
// already present (the caller flags the conflict; the new extent wins).
func (m *Map) SetOrigin(c Cell, e Extent) bool {
	_, existed := m.origins[c]
	m.origins[c] = e
	return existed
}

// Cover marks c as suppressed by some origin's span.
func (m *Map) Cover(c Cell) { m.covered[c] = struct{}{} }

// Origin returns the extent at c, if c is a span origin.
func (m *Map) Origin(c Cell) (Extent, bool) {
	e, ok := m.origins[c]
	return e, ok
}

// Covered reports whether c is suppressed.
func (m *Map) Covered(c Cell) bool {
	_, ok := m.covered[c]
	return ok
}

// Origins returns a copy of the origin set.
func (m *Map) Origins() map[Cell]Extent {
	out := make(map[Cell]Extent, len(m.origins))
	for c, e := range m.origins {
		out[c] = e
	}
	return out
}

// CoveredCells returns a copy of the covered set.
func (m *Map) CoveredCells() map[Cell]struct{} {
	out := make(map[Cell]struct{}, len(m.covered))
	for c := range m.covered {
		out[c] = struct{}{}
	}
	return out
}

// Columns returns the visible-column order the map's coordinates refer to.
func (m *Map) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

// AddFlag records a degradation flag.
func (m *Map) AddFlag(r Range, reason FlagReason) {
	m.flags = append(m.flags, Flag{Range: r, Reason: reason})
}

// Flags returns the degradation flags in the order they were recorded.
func (m *Map) Flags() []Flag {
	out := make([]Flag, len(m.flags))
	copy(out, m.flags)
	return out
}
