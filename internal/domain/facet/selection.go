package facet

// Range is an inclusive numeric interval with nullable bounds. NewRange swaps
// reversed bounds instead of rejecting them.
type Range struct {
	min *float64
	max *float64
}

// NewRange creates a Range. Either bound may be nil; when both are set and
// min > max they are swapped.
func NewRange(min, max *float64) Range {
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}
	return Range{min: min, max: max}
}

// Min returns the lower bound, nil when unbounded.
func (r Range) Min() *float64 { return r.min }

// Max returns the upper bound, nil when unbounded.
func (r Range) Max() *float64 { return r.max }

// Contains reports whether v falls within the inclusive interval.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}

// Pair is a hierarchical (group, variant) option.
type Pair struct {
	Group   string
	Variant string
}

// Selection is the chosen value set for one facet field. The zero Selection
// is inactive (equivalent to "all selected").
type Selection struct {
	field  string
	values map[string]struct{}
	rng    *Range
	groups map[string]struct{}
	pairs  map[Pair]struct{}
}

// SelectValues selects a set of literal options (categorical, token, or
// non-numeric text options of a numeric field).
func SelectValues(field string, values ...string) Selection {
	s := Selection{field: field, values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.values[v] = struct{}{}
	}
	return s
}

// SelectRange selects a numeric interval.
func SelectRange(field string, r Range) Selection {
	return Selection{field: field, rng: &r}
}

// SelectRangeAndValues selects a numeric interval plus literal text options;
// a record matches when it satisfies either.
func SelectRangeAndValues(field string, r Range, values ...string) Selection {
	s := SelectValues(field, values...)
	s.rng = &r
	return s
}

// SelectHierarchy selects groups and (group, variant) pairs. When any pair is
// selected, pairs take precedence and group-only selections are ignored.
func SelectHierarchy(field string, groups []string, pairs []Pair) Selection {
	s := Selection{
		field:  field,
		groups: make(map[string]struct{}, len(groups)),
		pairs:  make(map[Pair]struct{}, len(pairs)),
	}
	for _, g := range groups {
		s.groups[g] = struct{}{}
	}
	for _, p := range pairs {
		s.pairs[p] = struct{}{}
	}
	return s
}

// Field returns the facet field name this selection applies to.
func (s Selection) Field() string { return s.field }

// IsActive reports whether the selection constrains anything.
func (s Selection) IsActive() bool {
	return len(s.values) > 0 || s.rng != nil || len(s.groups) > 0 || len(s.pairs) > 0
}

// HasValue reports whether a literal option is selected.
func (s Selection) HasValue(v string) bool {
	_, ok := s.values[v]
	return ok
}

// HasValues reports whether any literal options are selected.
func (s Selection) HasValues() bool { return len(s.values) > 0 }

// Values enumerates the selected literal options.
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	return out
}

// Range returns the selected numeric interval, nil when none.
func (s Selection) Range() *Range { return s.rng }

// HasGroup reports whether a hierarchy group is selected.
func (s Selection) HasGroup(g string) bool {
	_, ok := s.groups[g]
	return ok
}

// HasPair reports whether a (group, variant) pair is selected.
func (s Selection) HasPair(p Pair) bool {
	_, ok := s.pairs[p]
	return ok
}

// HasPairs reports whether any variant pairs are selected. Variant selections
// take precedence over group-only selections.
func (s Selection) HasPairs() bool { return len(s.pairs) > 0 }

// HasGroups reports whether any group-only selections exist.
func (s Selection) HasGroups() bool { return len(s.groups) > 0 }

// State maps facet field names to their current selections. The UI layer owns
// mutation; the engines only read it. A new State is created on every dataset
// reload ("all selected").
type State struct {
	selections map[string]Selection
}

// NewState creates an empty state: every facet fully unconstrained.
func NewState() *State {
	return &State{selections: make(map[string]Selection)}
}

// Set stores a selection, replacing any previous one for the same field.
// Inactive selections clear the field instead.
func (st *State) Set(sel Selection) {
	if !sel.IsActive() {
		delete(st.selections, sel.field)
		return
	}
	st.selections[sel.field] = sel
}

// Clear removes the selection for a field.
func (st *State) Clear(field string) { delete(st.selections, field) }

// Get returns the active selection for a field.
func (st *State) Get(field string) (Selection, bool) {
	s, ok := st.selections[field]
	return s, ok
}

// Without returns a copy of the state with one field's selection removed.
// This is the exclusion base used for that field's counts.
func (st *State) Without(field string) *State {
	out := NewState()
	for name, sel := range st.selections {
		if name != field {
			out.selections[name] = sel
		}
	}
	return out
}

// Active returns the names of fields with an active selection.
func (st *State) Active() []string {
	out := make([]string, 0, len(st.selections))
	for name := range st.selections {
		out = append(out, name)
	}
	return out
}
