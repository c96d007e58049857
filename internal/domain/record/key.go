package record

import "strings"

// KeySeparator joins the depository abbreviation and the shelf mark inside a
// serialized key. The ASCII unit separator does not occur in catalog data.
const KeySeparator = "\x1f"

// Key identifies one physical manuscript: a normalized depository
// abbreviation plus a shelf mark.
type Key struct {
	depository string
	shelfmark  string
}

// NewKey normalizes both parts and creates a Key. A Key with both parts blank
// is valid but zero; zero keys are retained by grouping and rejected by every
// operation that needs to look a manuscript up.
func NewKey(depository, shelfmark string) Key {
	return Key{
		depository: normalizeKeyPart(depository),
		shelfmark:  normalizeKeyPart(shelfmark),
	}
}

// ParseKey splits a serialized key back into its parts. Input without a
// separator is treated as a bare shelf mark.
func ParseKey(s string) Key {
	dep, shelf, found := strings.Cut(s, KeySeparator)
	if !found {
		return NewKey("", s)
	}
	return NewKey(dep, shelf)
}

// Depository returns the normalized depository abbreviation.
func (k Key) Depository() string { return k.depository }

// Shelfmark returns the normalized shelf mark.
func (k Key) Shelfmark() string { return k.shelfmark }

// IsZero reports whether both parts are blank.
func (k Key) IsZero() bool { return k.depository == "" && k.shelfmark == "" }

// String returns the serialized form used as a map key and wire identifier.
func (k Key) String() string { return k.depository + KeySeparator + k.shelfmark }

// Display returns a human-readable "depository shelfmark" form.
func (k Key) Display() string {
	return strings.TrimSpace(k.depository + " " + k.shelfmark)
}

// normalizeKeyPart trims and collapses internal whitespace runs to one space.
func normalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
