package universe

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		sep  rune
		want string
	}{
		{"BRK.B", '-', "BRK-B"},
		{" brk.b ", '-', "BRK-B"},
		{"BF/B", '-', "BF-B"},
		{"BRK-B", '.', "BRK.B"},
		{"aapl", '.', "AAPL"},
		{"BT A", '-', "BT-A"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.raw, tt.sep); got != tt.want {
			t.Errorf("Normalize(%q, %q): expected %q, got %q", tt.raw, tt.sep, tt.want, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raws := []string{"BRK.B", "brk-b", " MSFT", "BF/B", "RDS A", "A.B.C", "", "-X-", "ÄBC.d"}
	for _, sep := range []rune{'-', '.'} {
		for _, raw := range raws {
			once := Normalize(raw, sep)
			if twice := Normalize(once, sep); twice != once {
				t.Errorf("Normalize not idempotent for %q sep %q: %q then %q", raw, sep, once, twice)
			}
		}
	}
}

func TestQualify(t *testing.T) {
	tests := []struct {
		raw, suffix, want string
	}{
		{"BT.A", ".L", "BT-A.L"},
		{"VOD", ".L", "VOD.L"},
		{"ADS.DE", ".DE", "ADS.DE"},
		{"ads", ".de", "ADS.DE"},
		{"BRK.B", "", "BRK-B"},
	}
	for _, tt := range tests {
		if got := Qualify(tt.raw, '-', tt.suffix); got != tt.want {
			t.Errorf("Qualify(%q, %q): expected %q, got %q", tt.raw, tt.suffix, tt.want, got)
		}
	}
}

func TestSnapshot_Dedup(t *testing.T) {
	s := NewSnapshot("msft", "AAPL", " MSFT ", "", "aapl", "GOOGL")
	if s.Len() != 3 {
		t.Fatalf("expected 3 symbols, got %d", s.Len())
	}
	want := []string{"AAPL", "GOOGL", "MSFT"}
	if got := s.Symbols(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !s.Contains("googl") || s.Contains("TSLA") {
		t.Error("unexpected Contains result")
	}
}

func TestSnapshot_OrderIrrelevant(t *testing.T) {
	a := NewSnapshot("X", "Y", "Z")
	b := NewSnapshot("Z", "X", "Y", "X")
	if !reflect.DeepEqual(a.Symbols(), b.Symbols()) {
		t.Errorf("insertion order leaked: %v vs %v", a.Symbols(), b.Symbols())
	}
}
