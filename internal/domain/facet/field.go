// Package facet defines the filterable dimensions of the catalog: field
// definitions, selection state, and per-option count results.
package facet

import (
	"fmt"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
)

// Kind is the matching behavior of a facet field.
type Kind string

// Facet field kinds.
const (
	// Categorical matches by exact (trimmed) value equality.
	Categorical Kind = "categorical"
	// Numeric matches a parsed numeric value against an inclusive range,
	// with non-numeric cells selectable as literal text options.
	Numeric Kind = "numeric"
	// Tokens matches when the selected token set intersects the record's.
	Tokens Kind = "tokens"
	// Hierarchy matches two-level group/variant values.
	Hierarchy Kind = "hierarchy"
	// UnitCount matches the manuscript-level distinct production-unit count.
	UnitCount Kind = "unit_count"
)

// EmptyValue is the option shown for blank cells. It is deliberately distinct
// from the literal cell text "Unknown", which stays its own option.
const EmptyValue = "(Empty)"

// Field is an immutable facet field definition.
type Field struct {
	name   string
	kind   Kind
	column string
}

// NewField validates and creates a Field.
func NewField(name string, kind Kind, column string) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("facet field name is required")
	}
	switch kind {
	case Categorical, Numeric, Tokens, Hierarchy, UnitCount:
	default:
		return Field{}, fmt.Errorf("invalid facet kind %q for %q", kind, name)
	}
	if column == "" && kind != UnitCount {
		return Field{}, fmt.Errorf("facet field %q needs a source column", name)
	}
	return Field{name: name, kind: kind, column: column}, nil
}

// Name returns the field name used in selections and count results.
func (f Field) Name() string { return f.name }

// Kind returns the matching behavior.
func (f Field) Kind() Kind { return f.kind }

// Column returns the source column the field reads.
func (f Field) Column() string { return f.column }

// DefaultFields is the catalog's standard facet set.
func DefaultFields() []Field {
	mk := func(name string, kind Kind, column string) Field {
		f, err := NewField(name, kind, column)
		if err != nil {
			panic(err)
		}
		return f
	}
	return []Field{
		mk("depository", Categorical, record.ColDepository),
		mk("support", Categorical, record.ColSupport),
		mk("scribe", Categorical, record.ColScribe),
		mk("dating", Numeric, record.ColDating),
		mk("lines", Numeric, record.ColLines),
		mk("minor_texts", Tokens, record.ColMinorTexts),
		mk("production_units", Tokens, record.ColProductionUnit),
		mk("unit_count", UnitCount, ""),
		mk("main_text", Hierarchy, record.ColMainText),
	}
}
