package record

import "strings"

// Canonical column names of the known schema. Dataset headers are mapped onto
// these by the ingestion layer; anything it cannot map lands in Extra.
const (
	ColDepository     = "Depository"
	ColShelfmark      = "Shelfmark"
	ColName           = "Name"
	ColMainText       = "Main text"
	ColMinorTexts     = "Minor texts"
	ColProductionUnit = "Production unit"
	ColDating         = "Dating"
	ColSupport        = "Support"
	ColLeaves         = "Leaves"
	ColColumns        = "Columns"
	ColLines          = "Lines"
	ColHeight         = "Height"
	ColWidth          = "Width"
	ColScribe         = "Scribe"
	ColProvenance     = "Provenance"
	ColLinks          = "Links"
	ColBibliography   = "Bibliography"
)

// knownColumns is the fixed schema in canonical display order.
var knownColumns = []string{
	ColDepository, ColShelfmark, ColName, ColMainText, ColMinorTexts,
	ColProductionUnit, ColDating, ColSupport, ColLeaves, ColColumns,
	ColLines, ColHeight, ColWidth, ColScribe, ColProvenance,
	ColLinks, ColBibliography,
}

// KnownColumns returns the fixed schema in canonical order.
func KnownColumns() []string {
	out := make([]string, len(knownColumns))
	copy(out, knownColumns)
	return out
}

// Record is one spreadsheet row: the fixed known-column schema plus an Extra
// side-mapping for dataset-specific columns. Records are created by ingestion,
// enriched once after load, and read-only afterwards.
type Record struct {
	Depository     string
	Shelfmark      string
	Name           string
	MainText       string
	MinorTexts     string
	ProductionUnit string
	Dating         string
	Support        string
	Leaves         string
	Columns        string
	Lines          string
	Height         string
	Width          string
	Scribe         string
	Provenance     string
	Links          string
	Bibliography   string

	// Extra holds columns outside the known schema, keyed by header text.
	Extra map[string]string

	// SourceID names the originating dataset source.
	SourceID string
	// SourceRow is the 0-based data-row index within the source. It exists
	// only to correlate rows with merge-range metadata.
	SourceRow int

	datingYear    int
	hasDatingYear bool
	unitCount     string
}

// Key composes the manuscript key from the depository and shelf mark.
func (r *Record) Key() Key { return NewKey(r.Depository, r.Shelfmark) }

// Value resolves a column by canonical name, falling back to Extra.
func (r *Record) Value(column string) string {
	switch column {
	case ColDepository:
		return r.Depository
	case ColShelfmark:
		return r.Shelfmark
	case ColName:
		return r.Name
	case ColMainText:
		return r.MainText
	case ColMinorTexts:
		return r.MinorTexts
	case ColProductionUnit:
		return r.ProductionUnit
	case ColDating:
		return r.Dating
	case ColSupport:
		return r.Support
	case ColLeaves:
		return r.Leaves
	case ColColumns:
		return r.Columns
	case ColLines:
		return r.Lines
	case ColHeight:
		return r.Height
	case ColWidth:
		return r.Width
	case ColScribe:
		return r.Scribe
	case ColProvenance:
		return r.Provenance
	case ColLinks:
		return r.Links
	case ColBibliography:
		return r.Bibliography
	}
	return r.Extra[column]
}

// SetValue assigns a cell during ingestion, routing unknown columns to Extra.
func (r *Record) SetValue(column, value string) {
	switch column {
	case ColDepository:
		r.Depository = value
	case ColShelfmark:
		r.Shelfmark = value
	case ColName:
		r.Name = value
	case ColMainText:
		r.MainText = value
	case ColMinorTexts:
		r.MinorTexts = value
	case ColProductionUnit:
		r.ProductionUnit = value
	case ColDating:
		r.Dating = value
	case ColSupport:
		r.Support = value
	case ColLeaves:
		r.Leaves = value
	case ColColumns:
		r.Columns = value
	case ColLines:
		r.Lines = value
	case ColHeight:
		r.Height = value
	case ColWidth:
		r.Width = value
	case ColScribe:
		r.Scribe = value
	case ColProvenance:
		r.Provenance = value
	case ColLinks:
		r.Links = value
	case ColBibliography:
		r.Bibliography = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[column] = value
	}
}

// EachValue visits every known and extra cell value on the record. Used by
// the free-text query.
func (r *Record) EachValue(fn func(column, value string) bool) {
	for _, c := range knownColumns {
		if !fn(c, r.Value(c)) {
			return
		}
	}
	for c, v := range r.Extra {
		if !fn(c, v) {
			return
		}
	}
}

// MatchesText reports whether any cell value contains the query,
// case-insensitively. An empty query matches everything.
func (r *Record) MatchesText(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	found := false
	r.EachValue(func(_, value string) bool {
		if strings.Contains(strings.ToLower(value), q) {
			found = true
			return false
		}
		return true
	})
	return found
}

// SetDatingYear records the parsed dating year (post-load enrichment).
func (r *Record) SetDatingYear(year int) {
	r.datingYear = year
	r.hasDatingYear = true
}

// DatingYear returns the parsed dating year, if the dating cell was parseable.
func (r *Record) DatingYear() (int, bool) { return r.datingYear, r.hasDatingYear }

// SetUnitCount records the manuscript-level production-unit count facet value
// (a decimal count or the literal "Unknown"), set once after grouping.
func (r *Record) SetUnitCount(v string) { r.unitCount = v }

// UnitCount returns the manuscript-level production-unit count facet value.
func (r *Record) UnitCount() string { return r.unitCount }
