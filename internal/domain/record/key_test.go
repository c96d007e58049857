package record

import "testing"

func TestNewKey_Normalizes(t *testing.T) {
	k := NewKey("  AM  ", " 4to   123 ")
	if k.Depository() != "AM" {
		t.Errorf("Depository = %q, want %q", k.Depository(), "AM")
	}
	if k.Shelfmark() != "4to 123" {
		t.Errorf("Shelfmark = %q, want %q", k.Shelfmark(), "4to 123")
	}
}

func TestKey_ZeroAndDisplay(t *testing.T) {
	zero := NewKey("", "   ")
	if !zero.IsZero() {
		t.Error("expected zero key")
	}
	if zero.Display() != "" {
		t.Errorf("zero Display = %q, want empty", zero.Display())
	}

	k := NewKey("AM", "343 fol.")
	if k.IsZero() {
		t.Error("unexpected zero key")
	}
	if got := k.Display(); got != "AM 343 fol." {
		t.Errorf("Display = %q, want %q", got, "AM 343 fol.")
	}
}

func TestKey_RoundTrip(t *testing.T) {
	k := NewKey("GKS", "1154 fol.")
	parsed := ParseKey(k.String())
	if parsed != k {
		t.Errorf("ParseKey(String()) = %#v, want %#v", parsed, k)
	}
}

func TestParseKey_BareShelfmark(t *testing.T) {
	k := ParseKey("1154 fol.")
	if k.Depository() != "" || k.Shelfmark() != "1154 fol." {
		t.Errorf("ParseKey = (%q, %q), want (\"\", %q)", k.Depository(), k.Shelfmark(), "1154 fol.")
	}
}

func TestKey_SameContentCompares(t *testing.T) {
	a := NewKey("AM ", "673 a 4to")
	b := NewKey(" AM", "673  a  4to")
	if a != b {
		t.Errorf("normalized keys differ: %v vs %v", a, b)
	}
}
