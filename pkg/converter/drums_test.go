package converter

import "testing"

func TestDrumNote(t *testing.T) {
	tests := []struct {
		key  string
		note int
		ok   bool
	}{
		{"BD", 36, true},
		{"bd", 36, true},
		{"Oh", 46, true},
		{"CB", 56, true},
		{"ZZ", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		note, ok := DrumNote(tt.key)
		if note != tt.note || ok != tt.ok {
			t.Errorf("DrumNote(%q) = %d, %v, want %d, %v", tt.key, note, ok, tt.note, tt.ok)
		}
	}
}

func TestDrumName(t *testing.T) {
	if name, ok := DrumName(38); !ok || name != "SD" {
		t.Errorf("DrumName(38) = %q, %v, want SD, true", name, ok)
	}
	if _, ok := DrumName(99); ok {
		t.Error("DrumName(99) = ok, want not found")
	}
}

func TestDrums(t *testing.T) {
	drums := Drums()
	if len(drums) != 11 {
		t.Fatalf("got %d drums, want 11", len(drums))
	}
	for i := 1; i < len(drums); i++ {
		if drums[i].Note <= drums[i-1].Note {
			t.Errorf("drums out of order at %d: %v after %v", i, drums[i], drums[i-1])
		}
	}
	if drums[0].Key != "BD" || drums[len(drums)-1].Key != "CB" {
		t.Errorf("table ends = %q..%q, want BD..CB", drums[0].Key, drums[len(drums)-1].Key)
	}
}
