package parse

import "testing"

func TestSplitHierarchy(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		group   string
		variant string
	}{
		{"group with variant", "Landslov (Gulathing)", "Landslov", "Gulathing"},
		{"group only", "Landslov", "Landslov", ""},
		{"variant without closing paren", "Landslov (Gulathing", "Landslov", "Gulathing"},
		{"empty group", "(fragment)", "", "fragment"},
		{"whitespace trimmed", "  Landslov  (  Gulathing  )", "Landslov", "Gulathing"},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, variant := SplitHierarchy(tt.in)
			if group != tt.group || variant != tt.variant {
				t.Errorf("SplitHierarchy(%q) = (%q, %q), want (%q, %q)",
					tt.in, group, variant, tt.group, tt.variant)
			}
		})
	}
}
