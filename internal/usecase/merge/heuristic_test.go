package merge

import (
	"testing"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

func TestHeuristicSpanMap_SingleRowNoSpans(t *testing.T) {
	svc := New(nil)
	m := svc.HeuristicSpanMap(blockRows(1), []string{record.ColDepository})
	if len(m.Origins()) != 0 {
		t.Error("single-row manuscripts need no spans")
	}
}

func TestHeuristicSpanMap_ConstantColumn(t *testing.T) {
	rows := blockRows(3)
	for _, r := range rows {
		r.Support = "Parchment"
		r.Name = "varies"
	}
	rows[1].Name = "differs"

	svc := New(nil)
	m := svc.HeuristicSpanMap(rows, []string{record.ColSupport, record.ColName})

	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.RowSpan != 3 {
		t.Errorf("constant column origin = (%+v, %v), want 3 rows", e, ok)
	}
	if _, ok := m.Origin(span.Cell{Row: 0, Col: 1}); ok {
		t.Error("varying column must not merge")
	}
}

func TestHeuristicSpanMap_DotCountsAsEmpty(t *testing.T) {
	rows := blockRows(2)
	rows[0].Scribe = "."
	rows[1].Scribe = ""

	svc := New(nil)
	m := svc.HeuristicSpanMap(rows, []string{record.ColScribe})
	if _, ok := m.Origin(span.Cell{Row: 0, Col: 0}); !ok {
		t.Error("\".\" and blank should count as the same empty value")
	}
}

func TestHeuristicSpanMap_LinksAlwaysMerged(t *testing.T) {
	rows := blockRows(2)
	rows[0].Links = "http://a"
	rows[1].Links = "http://b"

	svc := New(nil)
	m := svc.HeuristicSpanMap(rows, []string{record.ColLinks})
	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.RowSpan != 2 {
		t.Errorf("links origin = (%+v, %v), want full-height span despite differing values", e, ok)
	}
}

func TestHeuristicSpanMap_BibliographyMergedOnlyWhenEmpty(t *testing.T) {
	empty := blockRows(2)
	svc := New(nil)
	m := svc.HeuristicSpanMap(empty, []string{record.ColBibliography})
	if _, ok := m.Origin(span.Cell{Row: 0, Col: 0}); !ok {
		t.Error("all-empty bibliography should merge")
	}

	mixed := blockRows(2)
	mixed[0].Bibliography = "Storm 1885"
	m = svc.HeuristicSpanMap(mixed, []string{record.ColBibliography})
	if _, ok := m.Origin(span.Cell{Row: 0, Col: 0}); ok {
		t.Error("partially filled bibliography must not merge")
	}
}

func TestHeuristicSpanMap_ProductionUnitRuns(t *testing.T) {
	rows := blockRows(5)
	rows[0].ProductionUnit = "I"
	rows[1].ProductionUnit = "" // inherits I
	rows[2].ProductionUnit = "I"
	rows[3].ProductionUnit = "II"
	rows[4].ProductionUnit = "II"
	// Scribe is constant inside each unit run but not across the manuscript.
	rows[0].Scribe, rows[1].Scribe, rows[2].Scribe = "Hand A", "Hand A", "Hand A"
	rows[3].Scribe, rows[4].Scribe = "Hand B", "Hand B"

	svc := New(nil)
	m := svc.HeuristicSpanMap(rows, []string{record.ColProductionUnit, record.ColScribe})

	e, ok := m.Origin(span.Cell{Row: 0, Col: 0})
	if !ok || e.RowSpan != 3 {
		t.Errorf("unit run I origin = (%+v, %v), want 3 rows with blank inheritance", e, ok)
	}
	e, ok = m.Origin(span.Cell{Row: 3, Col: 0})
	if !ok || e.RowSpan != 2 {
		t.Errorf("unit run II origin = (%+v, %v), want 2 rows", e, ok)
	}

	// Scribe merges per run.
	e, ok = m.Origin(span.Cell{Row: 0, Col: 1})
	if !ok || e.RowSpan != 3 {
		t.Errorf("scribe run origin = (%+v, %v), want 3 rows", e, ok)
	}
	e, ok = m.Origin(span.Cell{Row: 3, Col: 1})
	if !ok || e.RowSpan != 2 {
		t.Errorf("scribe run origin = (%+v, %v), want 2 rows", e, ok)
	}
}

func TestHeuristicSpanMap_OneRowRunNotMerged(t *testing.T) {
	rows := blockRows(3)
	rows[0].ProductionUnit = "I"
	rows[1].ProductionUnit = "II"
	rows[2].ProductionUnit = "II"

	svc := New(nil)
	m := svc.HeuristicSpanMap(rows, []string{record.ColProductionUnit})
	if _, ok := m.Origin(span.Cell{Row: 0, Col: 0}); ok {
		t.Error("one-row run must not become an origin")
	}
	if _, ok := m.Origin(span.Cell{Row: 1, Col: 0}); !ok {
		t.Error("two-row run should merge")
	}
}
