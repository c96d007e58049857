package merge

import (
	"strings"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

// HeuristicSpanMap renders spans without merge metadata. Per visible column:
//
//   - the links column, and the bibliography column when empty across the
//     whole manuscript, always merge into one manuscript-spanning cell
//     (their semantics are manuscript-level, not row-level);
//   - a column whose normalized value is identical on every row merges into
//     one manuscript-spanning cell;
//   - the production-unit column, and any column whose value is constant
//     within a contiguous run of identical production-unit values, merges per
//     maximal run. A blank production-unit cell inherits the previous row's
//     value for run detection only; the stored cell is never changed.
func (s *Service) HeuristicSpanMap(rows []*record.Record, visibleColumns []string) *span.Map {
	m := span.NewMap(visibleColumns)
	if len(rows) < 2 {
		return m
	}

	runs := unitRuns(rows)

	for col, name := range visibleColumns {
		switch {
		case name == record.ColLinks:
			addColumnSpan(m, col, 0, len(rows)-1)
		case name == record.ColBibliography && allEmpty(rows, name):
			addColumnSpan(m, col, 0, len(rows)-1)
		case isConstant(rows, name):
			addColumnSpan(m, col, 0, len(rows)-1)
		case name == record.ColProductionUnit:
			for _, run := range runs {
				addColumnSpan(m, col, run[0], run[1])
			}
		default:
			for _, run := range runs {
				if isConstant(rows[run[0]:run[1]+1], name) {
					addColumnSpan(m, col, run[0], run[1])
				}
			}
		}
	}
	return m
}

// addColumnSpan records a single-column vertical span over [first, last].
// One-row spans need no visual merge and are dropped.
func addColumnSpan(m *span.Map, col, first, last int) {
	if last <= first {
		return
	}
	m.SetOrigin(span.Cell{Row: first, Col: col}, span.Extent{RowSpan: last - first + 1, ColSpan: 1})
	for row := first + 1; row <= last; row++ {
		m.Cover(span.Cell{Row: row, Col: col})
	}
}

// normalizeCell trims the cell; a lone "." is a placeholder for empty.
func normalizeCell(v string) string {
	v = strings.TrimSpace(v)
	if v == "." {
		return ""
	}
	return v
}

// isConstant reports whether a column holds one normalized value across rows.
func isConstant(rows []*record.Record, column string) bool {
	first := normalizeCell(rows[0].Value(column))
	for _, r := range rows[1:] {
		if normalizeCell(r.Value(column)) != first {
			return false
		}
	}
	return true
}

// allEmpty reports whether a column is empty on every row.
func allEmpty(rows []*record.Record, column string) bool {
	for _, r := range rows {
		if normalizeCell(r.Value(column)) != "" {
			return false
		}
	}
	return true
}

// unitRuns computes maximal contiguous runs of identical effective
// production-unit values as [first, last] local row intervals. A blank cell
// inherits the previous row's value for run detection.
func unitRuns(rows []*record.Record) [][2]int {
	var runs [][2]int
	start := 0
	prev := normalizeCell(rows[0].Value(record.ColProductionUnit))
	for i := 1; i < len(rows); i++ {
		v := normalizeCell(rows[i].Value(record.ColProductionUnit))
		if v == "" {
			v = prev
		}
		if v != prev {
			runs = append(runs, [2]int{start, i - 1})
			start = i
		}
		prev = v
	}
	runs = append(runs, [2]int{start, len(rows) - 1})
	return runs
}
