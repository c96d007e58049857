package facet

// FieldCounts is the live count result for one facet field: the size of its
// exclusion base (every other facet plus the free-text query applied, this
// field's own selection ignored) and the per-option hit counts within that
// base. The "All" pseudo-option's count is BaseTotal.
type FieldCounts struct {
	BaseTotal int
	Counts    map[string]int
}

// NewFieldCounts creates an empty count result.
func NewFieldCounts() FieldCounts {
	return FieldCounts{Counts: make(map[string]int)}
}
