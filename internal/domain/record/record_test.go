package record

import "testing"

func TestRecord_ValueRouting(t *testing.T) {
	r := &Record{}
	r.SetValue(ColSupport, "Parchment")
	r.SetValue("Watermark", "crown")

	if got := r.Value(ColSupport); got != "Parchment" {
		t.Errorf("Value(Support) = %q, want %q", got, "Parchment")
	}
	if got := r.Value("Watermark"); got != "crown" {
		t.Errorf("Value(Watermark) = %q, want %q", got, "crown")
	}
	if got := r.Value("Missing"); got != "" {
		t.Errorf("Value(Missing) = %q, want empty", got)
	}
}

func TestRecord_EachValueVisitsExtra(t *testing.T) {
	r := &Record{Depository: "AM", Extra: map[string]string{"Watermark": "crown"}}

	seen := make(map[string]string)
	r.EachValue(func(column, value string) bool {
		if value != "" {
			seen[column] = value
		}
		return true
	})

	if seen[ColDepository] != "AM" {
		t.Errorf("known column not visited: %v", seen)
	}
	if seen["Watermark"] != "crown" {
		t.Errorf("extra column not visited: %v", seen)
	}
}

func TestRecord_MatchesText(t *testing.T) {
	r := &Record{MainText: "Landslov (Gulathing)", Extra: map[string]string{"Watermark": "Crown"}}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"landslov", true},
		{"GULATHING", true},
		{"crown", true},
		{"jonsbok", false},
	}
	for _, tt := range tests {
		if got := r.MatchesText(tt.query); got != tt.want {
			t.Errorf("MatchesText(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestRecord_DatingYearEnrichment(t *testing.T) {
	r := &Record{Dating: "c. 1420"}
	if _, ok := r.DatingYear(); ok {
		t.Fatal("unenriched record reports a dating year")
	}
	r.SetDatingYear(1420)
	year, ok := r.DatingYear()
	if !ok || year != 1420 {
		t.Errorf("DatingYear = (%d, %v), want (1420, true)", year, ok)
	}
}
