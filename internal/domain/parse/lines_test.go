package parse

import "testing"

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		min, max int
		text     string
		ok       bool
	}{
		{"range with parenthetical and prefix", "ca. 20-25 (f. 3r)", 20, 25, "", true},
		{"single number", "22", 22, 22, "", true},
		{"plain range", "20-25", 20, 25, "", true},
		{"range with en dash", "20–25", 20, 25, "", true},
		{"reversed range sorted", "25-20", 20, 25, "", true},
		{"c. prefix", "c. 30", 30, 30, "", true},
		{"uppercase prefix", "Ca. 18", 18, 18, "", true},
		{"free text kept verbatim", "many", 0, 0, "many", false},
		{"free text cleaned of parenthetical", "varies (per leaf)", 0, 0, "varies", false},
		{"empty", "", 0, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, text, ok := Lines(tt.in)
			if ok != tt.ok {
				t.Fatalf("Lines(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if min != tt.min || max != tt.max {
				t.Errorf("Lines(%q) = [%d,%d], want [%d,%d]", tt.in, min, max, tt.min, tt.max)
			}
			if text != tt.text {
				t.Errorf("Lines(%q) text = %q, want %q", tt.in, text, tt.text)
			}
		})
	}
}
