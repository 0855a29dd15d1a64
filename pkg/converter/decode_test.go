package converter

import (
	"encoding/json"
	"testing"
)

func TestDumpMIDI(t *testing.T) {
	c := mustConverter(t, DefaultOptions())
	p := parseForTest(t, "BD X---\nCH XXXX\n")

	data, err := c.GenerateMIDI(p, "dumped")
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	out, err := DumpMIDI(data)
	if err != nil {
		t.Fatalf("DumpMIDI() error = %v", err)
	}

	var dump MIDIDump
	if err := json.Unmarshal(out, &dump); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if dump.Resolution != 128 {
		t.Errorf("resolution = %d, want 128", dump.Resolution)
	}
	if len(dump.Tracks) != 1 || dump.Tracks[0].Name != "dumped" {
		t.Fatalf("tracks = %+v, want one track named dumped", dump.Tracks)
	}
	// 4 steps renders as 4/8 with the subdivision halved.
	if dump.Tracks[0].TimeSignature != "4/8" {
		t.Errorf("time signature = %q, want 4/8", dump.Tracks[0].TimeSignature)
	}

	ons := 0
	for _, ev := range dump.Tracks[0].Events {
		if ev.Type == "note_on" {
			ons++
		}
	}
	if ons != 5 {
		t.Errorf("got %d note ons, want 5 (one BD, four CH)", ons)
	}
}

func TestDumpMIDIRejectsGarbage(t *testing.T) {
	if _, err := DumpMIDI([]byte("BD X---")); err == nil {
		t.Error("DumpMIDI() on pattern text = nil error, want error")
	}
}
