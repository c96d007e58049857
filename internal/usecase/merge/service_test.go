package merge

import (
	"errors"
	"testing"

	"github.com/PatrikGranholm/nordiclaw/internal/domain"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

func blockRows(n int) []*record.Record {
	rows := make([]*record.Record, n)
	for i := range rows {
		rows[i] = &record.Record{
			Depository: "AM",
			Shelfmark:  "1",
			SourceID:   "catalog",
			SourceRow:  i,
		}
	}
	return rows
}

func TestBuildSpanMap_NoMetadata(t *testing.T) {
	svc := New(nil)
	_, err := svc.BuildSpanMap(blockRows(2), "catalog", nil, nil, map[string][]span.Range{})
	if !errors.Is(err, domain.ErrNoMergeMetadata) {
		t.Fatalf("err = %v, want ErrNoMergeMetadata", err)
	}
}

func TestBuildSpanMap_EndToEnd(t *testing.T) {
	// Three rows; Depository merged over all three, Name over the first two.
	rows := blockRows(3)
	cols := []string{record.ColDepository, record.ColName}
	ranges := map[string][]span.Range{
		"catalog": {
			{MinRow: 0, MaxRow: 2, FirstColumn: record.ColDepository, LastColumn: record.ColDepository},
			{MinRow: 0, MaxRow: 1, FirstColumn: record.ColName, LastColumn: record.ColName},
		},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.RowSpan != 3 || e.ColSpan != 1 {
		t.Errorf("depository origin = (%+v, %v), want 3x1", e, ok)
	}
	e, ok = m.Origin(span.Cell{Row: 0, Col: 1})
	if !ok || e.RowSpan != 2 || e.ColSpan != 1 {
		t.Errorf("name origin = (%+v, %v), want 2x1", e, ok)
	}

	// Row 2 of the Name column is its own unmerged cell.
	if _, ok := m.Origin(span.Cell{Row: 2, Col: 1}); ok {
		t.Error("row 2 name must not be an origin")
	}
	if m.Covered(span.Cell{Row: 2, Col: 1}) {
		t.Error("row 2 name must not be covered")
	}

	for _, c := range []span.Cell{{Row: 1, Col: 0}, {Row: 2, Col: 0}, {Row: 1, Col: 1}} {
		if !m.Covered(c) {
			t.Errorf("cell %+v should be covered", c)
		}
	}
	if len(m.Flags()) != 0 {
		t.Errorf("unexpected flags: %+v", m.Flags())
	}
}

func TestBuildSpanMap_CoverageInvariant(t *testing.T) {
	// Every origin's rectangle accounts for exactly the origin plus the
	// covered cells, with no overlap between origins.
	rows := blockRows(4)
	cols := []string{record.ColDepository, record.ColName, record.ColDating}
	ranges := map[string][]span.Range{
		"catalog": {
			{MinRow: 0, MaxRow: 3, FirstColumn: record.ColDepository, LastColumn: record.ColDepository},
			{MinRow: 0, MaxRow: 1, FirstColumn: record.ColName, LastColumn: record.ColDating},
			{MinRow: 2, MaxRow: 3, FirstColumn: record.ColDating, LastColumn: record.ColDating},
		},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accounted := make(map[span.Cell]int)
	for c, e := range m.Origins() {
		for row := c.Row; row < c.Row+e.RowSpan; row++ {
			for col := c.Col; col < c.Col+e.ColSpan; col++ {
				accounted[span.Cell{Row: row, Col: col}]++
			}
		}
	}
	for c, n := range accounted {
		if n > 1 {
			t.Errorf("cell %+v claimed by %d origins", c, n)
		}
		_, isOrigin := m.Origin(c)
		if !isOrigin && !m.Covered(c) {
			t.Errorf("cell %+v inside a span but neither origin nor covered", c)
		}
	}
	for c := range m.CoveredCells() {
		if accounted[c] == 0 {
			t.Errorf("covered cell %+v outside every origin rectangle", c)
		}
	}
}

func TestBuildSpanMap_RowNotContained(t *testing.T) {
	rows := blockRows(2) // source rows 0..1; the range reaches row 2
	cols := []string{record.ColDepository}
	ranges := map[string][]span.Range{
		"catalog": {{MinRow: 0, MaxRow: 2, FirstColumn: record.ColDepository, LastColumn: record.ColDepository}},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Origins()) != 0 || len(m.CoveredCells()) != 0 {
		t.Error("partially contained range must produce neither origins nor coverage")
	}
	flags := m.Flags()
	if len(flags) != 1 || flags[0].Reason != span.RangeOutOfBounds {
		t.Errorf("flags = %+v, want one RangeOutOfBounds", flags)
	}
}

func TestBuildSpanMap_UnresolvableColumn(t *testing.T) {
	rows := blockRows(2)
	cols := []string{record.ColDepository}
	ranges := map[string][]span.Range{
		"catalog": {{MinRow: 0, MaxRow: 1, FirstColumn: "Nope", LastColumn: record.ColDepository}},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flags := m.Flags()
	if len(flags) != 1 || flags[0].Reason != span.UnresolvableColumn {
		t.Errorf("flags = %+v, want one UnresolvableColumn", flags)
	}
}

func TestBuildSpanMap_HiddenColumnsShrinkSpan(t *testing.T) {
	rows := blockRows(2)
	full := []string{record.ColDepository, record.ColName, record.ColDating}
	visible := []string{record.ColDepository, record.ColDating} // Name hidden
	ranges := map[string][]span.Range{
		"catalog": {{MinRow: 0, MaxRow: 1, FirstColumn: record.ColDepository, LastColumn: record.ColDating}},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", full, visible, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.ColSpan != 2 || e.RowSpan != 2 {
		t.Errorf("origin = (%+v, %v), want 2x2 over the two visible columns", e, ok)
	}
}

func TestBuildSpanMap_AllColumnsHidden(t *testing.T) {
	rows := blockRows(2)
	full := []string{record.ColDepository, record.ColName}
	visible := []string{record.ColName}
	ranges := map[string][]span.Range{
		"catalog": {{MinRow: 0, MaxRow: 1, FirstColumn: record.ColDepository, LastColumn: record.ColDepository}},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", full, visible, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flags := m.Flags()
	if len(flags) != 1 || flags[0].Reason != span.ColumnsHidden {
		t.Errorf("flags = %+v, want one ColumnsHidden", flags)
	}
}

func TestBuildSpanMap_SingleCellSkipped(t *testing.T) {
	rows := blockRows(2)
	cols := []string{record.ColDepository}
	ranges := map[string][]span.Range{
		"catalog": {{MinRow: 1, MaxRow: 1, FirstColumn: record.ColDepository, LastColumn: record.ColDepository}},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Origins()) != 0 {
		t.Error("1x1 range must not become an origin")
	}
	flags := m.Flags()
	if len(flags) != 1 || flags[0].Reason != span.SingleCell {
		t.Errorf("flags = %+v, want one SingleCell", flags)
	}
}

func TestBuildSpanMap_OriginConflictLastWins(t *testing.T) {
	rows := blockRows(3)
	cols := []string{record.ColDepository}
	ranges := map[string][]span.Range{
		"catalog": {
			{MinRow: 0, MaxRow: 1, FirstColumn: record.ColDepository, LastColumn: record.ColDepository},
			{MinRow: 0, MaxRow: 2, FirstColumn: record.ColDepository, LastColumn: record.ColDepository},
		},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.RowSpan != 3 {
		t.Errorf("origin = (%+v, %v), want the later 3-row range", e, ok)
	}
	flags := m.Flags()
	if len(flags) != 1 || flags[0].Reason != span.OriginConflict {
		t.Errorf("flags = %+v, want one OriginConflict", flags)
	}
}

func TestBuildSpanMap_ReversedColumnBounds(t *testing.T) {
	rows := blockRows(2)
	cols := []string{record.ColDepository, record.ColName}
	ranges := map[string][]span.Range{
		"catalog": {{MinRow: 0, MaxRow: 1, FirstColumn: record.ColName, LastColumn: record.ColDepository}},
	}

	svc := New(nil)
	m, err := svc.BuildSpanMap(rows, "catalog", cols, cols, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.ColSpan != 2 {
		t.Errorf("origin = (%+v, %v), want a 2-column span from swapped bounds", e, ok)
	}
}
