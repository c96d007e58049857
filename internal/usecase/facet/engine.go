// Package facet implements the filter and live count engine: given a record
// or manuscript universe and the current selection state it computes the
// filtered set, and per facet field the count every option would yield if it
// were additionally selected (exclusion-count semantics).
package facet

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/facet"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/manuscript"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/parse"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
)

// Engine evaluates facet selections against a universe. It is stateless and
// safe for concurrent reads of an immutable snapshot.
type Engine struct {
	fields []facet.Field
	byName map[string]facet.Field
	logger *zap.Logger
}

// New creates an engine over a facet field catalog. logger may be nil.
func New(fields []facet.Field, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]facet.Field, len(fields))
	for _, f := range fields {
		byName[f.Name()] = f
	}
	return &Engine{fields: fields, byName: byName, logger: logger}
}

// Fields returns the facet catalog in definition order.
func (e *Engine) Fields() []facet.Field {
	out := make([]facet.Field, len(e.fields))
	copy(out, e.fields)
	return out
}

// Field looks a facet field up by name.
func (e *Engine) Field(name string) (facet.Field, bool) {
	f, ok := e.byName[name]
	return f, ok
}

// predicate is one active facet selection compiled for matching: token
// selections carry a pre-folded value set so per-record comparisons stay
// case- and diacritic-insensitive.
type predicate struct {
	field  facet.Field
	sel    facet.Selection
	folded map[string]struct{}
}

// compile collects the active selections, excluding one field (empty string
// excludes nothing). Selections naming unknown fields are ignored with a log,
// never an error: the engine always produces a best-effort result.
func (e *Engine) compile(st *facet.State, exclude string) []predicate {
	if st == nil {
		return nil
	}
	var out []predicate
	for _, f := range e.fields {
		if f.Name() == exclude {
			continue
		}
		sel, ok := st.Get(f.Name())
		if !ok {
			continue
		}
		p := predicate{field: f, sel: sel}
		if f.Kind() == facet.Tokens || f.Kind() == facet.Categorical ||
			f.Kind() == facet.UnitCount || f.Kind() == facet.Numeric {
			p.folded = make(map[string]struct{})
			for _, v := range sel.Values() {
				p.folded[parse.Fold(v)] = struct{}{}
			}
		}
		out = append(out, p)
	}
	for _, name := range st.Active() {
		if _, ok := e.byName[name]; !ok {
			e.logger.Debug("selection on unknown facet field ignored", zap.String("field", name))
		}
	}
	return out
}

// FilterRows applies every active facet plus the free-text query (row mode).
func (e *Engine) FilterRows(rows []*record.Record, st *facet.State, query string) []*record.Record {
	preds := e.compile(st, "")
	var out []*record.Record
	for _, r := range rows {
		if matchRecord(r, preds, query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterManuscripts applies every active facet plus the free-text query
// (manuscript mode: a manuscript matches a field if any of its rows does).
func (e *Engine) FilterManuscripts(
	mss []*manuscript.Manuscript, st *facet.State, query string,
) []*manuscript.Manuscript {
	preds := e.compile(st, "")
	var out []*manuscript.Manuscript
	for _, m := range mss {
		if matchManuscript(m, preds, query) {
			out = append(out, m)
		}
	}
	return out
}

// CountRows computes per-field exclusion counts in row mode. For each field
// the base set applies every other facet's selection plus the query but not
// the field's own; counts tally one hit per matching row per option.
func (e *Engine) CountRows(
	rows []*record.Record, st *facet.State, query string,
) map[string]facet.FieldCounts {
	out := make(map[string]facet.FieldCounts, len(e.fields))
	for _, f := range e.fields {
		preds := e.compile(st, f.Name())
		fc := facet.NewFieldCounts()
		for _, r := range rows {
			if !matchRecord(r, preds, query) {
				continue
			}
			fc.BaseTotal++
			for _, opt := range recordOptions(f, r) {
				fc.Counts[opt]++
			}
		}
		out[f.Name()] = fc
	}
	return out
}

// CountManuscripts computes per-field exclusion counts in manuscript mode.
// Each matching manuscript counts once per option it exhibits on any row.
func (e *Engine) CountManuscripts(
	mss []*manuscript.Manuscript, st *facet.State, query string,
) map[string]facet.FieldCounts {
	out := make(map[string]facet.FieldCounts, len(e.fields))
	for _, f := range e.fields {
		preds := e.compile(st, f.Name())
		fc := facet.NewFieldCounts()
		for _, m := range mss {
			if !matchManuscript(m, preds, query) {
				continue
			}
			fc.BaseTotal++
			seen := make(map[string]struct{})
			for _, r := range m.Rows() {
				for _, opt := range recordOptions(f, r) {
					if _, dup := seen[opt]; dup {
						continue
					}
					seen[opt] = struct{}{}
					fc.Counts[opt]++
				}
			}
		}
		out[f.Name()] = fc
	}
	return out
}

func matchRecord(r *record.Record, preds []predicate, query string) bool {
	if !r.MatchesText(query) {
		return false
	}
	for _, p := range preds {
		if !matchField(p, r) {
			return false
		}
	}
	return true
}

func matchManuscript(m *manuscript.Manuscript, preds []predicate, query string) bool {
	if query != "" && !m.AnyRow(func(r *record.Record) bool { return r.MatchesText(query) }) {
		return false
	}
	for _, p := range preds {
		p := p
		if !m.AnyRow(func(r *record.Record) bool { return matchField(p, r) }) {
			return false
		}
	}
	return true
}

// matchField evaluates one active selection against one record.
func matchField(p predicate, r *record.Record) bool {
	switch p.field.Kind() {
	case facet.Categorical:
		return hasFolded(p.folded, categoricalValue(r, p.field.Column()))

	case facet.UnitCount:
		return hasFolded(p.folded, unitCountValue(r))

	case facet.Numeric:
		lo, hi, text, numeric := numericValue(p.field, r)
		if numeric {
			rng := p.sel.Range()
			return rng != nil && intersects(*rng, lo, hi)
		}
		// Records with no parseable value never match an active range
		// filter, but stay selectable as literal text options.
		return len(p.folded) > 0 && text != "" && hasFolded(p.folded, text)

	case facet.Tokens:
		for _, tok := range tokenValues(p.field, r) {
			if hasFolded(p.folded, tok) {
				return true
			}
		}
		return false

	case facet.Hierarchy:
		group, variant := parse.SplitHierarchy(r.Value(p.field.Column()))
		if p.sel.HasPairs() {
			// Variant selections take precedence; group-only selections
			// are ignored while any variant is active.
			return p.sel.HasPair(facet.Pair{Group: group, Variant: variant})
		}
		return p.sel.HasGroup(group)
	}
	return false
}

// recordOptions enumerates the option values a record contributes to a
// field's counts.
func recordOptions(f facet.Field, r *record.Record) []string {
	switch f.Kind() {
	case facet.Categorical:
		return []string{categoricalValue(r, f.Column())}
	case facet.UnitCount:
		return []string{unitCountValue(r)}
	case facet.Numeric:
		lo, hi, text, numeric := numericValue(f, r)
		switch {
		case numeric && lo == hi:
			return []string{strconv.Itoa(lo)}
		case numeric:
			return []string{strconv.Itoa(lo) + "-" + strconv.Itoa(hi)}
		case text != "":
			return []string{text}
		}
		// Unparseable and blank cells are excluded from count statistics.
		return nil
	case facet.Tokens:
		return tokenValues(f, r)
	case facet.Hierarchy:
		group, variant := parse.SplitHierarchy(r.Value(f.Column()))
		if group == "" {
			return []string{facet.EmptyValue}
		}
		if variant == "" {
			return []string{group}
		}
		return []string{group, group + "|" + variant}
	}
	return nil
}

// categoricalValue normalizes a cell for exact matching; blank cells become
// the Empty sentinel, a literal "Unknown" stays its own option.
func categoricalValue(r *record.Record, column string) string {
	v := strings.TrimSpace(r.Value(column))
	if v == "" {
		return facet.EmptyValue
	}
	return v
}

func unitCountValue(r *record.Record) string {
	if v := r.UnitCount(); v != "" {
		return v
	}
	return facet.EmptyValue
}

// numericValue resolves a numeric field's value interval. Dating uses the
// enriched parsed year; lines parse on demand.
func numericValue(f facet.Field, r *record.Record) (lo, hi int, text string, ok bool) {
	if f.Column() == record.ColDating {
		if year, has := r.DatingYear(); has {
			return year, year, "", true
		}
		// Unparseable dating stays null: no text option, no counts.
		return 0, 0, "", false
	}
	return parse.Lines(r.Value(f.Column()))
}

func tokenValues(f facet.Field, r *record.Record) []string {
	raw := r.Value(f.Column())
	if f.Column() == record.ColProductionUnit {
		return parse.ProductionUnits(raw)
	}
	return parse.Tokens(raw)
}

// intersects reports whether the record interval [lo, hi] overlaps the
// selected range.
func intersects(rng facet.Range, lo, hi int) bool {
	if min := rng.Min(); min != nil && float64(hi) < *min {
		return false
	}
	if max := rng.Max(); max != nil && float64(lo) > *max {
		return false
	}
	return true
}

func hasFolded(set map[string]struct{}, v string) bool {
	_, ok := set[parse.Fold(v)]
	return ok
}
