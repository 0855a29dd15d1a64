package converter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"beat.drum", FormatPattern},
		{"beat.txt", FormatPattern},
		{"BEAT.DRUM", FormatPattern},
		{"beat.mid", FormatMIDI},
		{"beat.midi", FormatMIDI},
		{"beat.wav", FormatUnknown},
		{"beat", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"pattern text", []byte("BD X---"), FormatPattern},
		{"short data", []byte("BD"), FormatPattern},
		{"empty", nil, FormatPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "groove.drum")
	output := filepath.Join(dir, "groove.mid")
	if err := os.WriteFile(input, []byte("BD X---X---X---X---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := mustConverter(t, DefaultOptions())
	warnings, err := c.ConvertFile(input, output)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if DetectFormatFromContent(data) != FormatMIDI {
		t.Error("output is not a MIDI file")
	}
}

func TestConvertFileReportsWarnings(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rough.drum")
	output := filepath.Join(dir, "rough.mid")
	if err := os.WriteFile(input, []byte("BD X---\nQQ X---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := mustConverter(t, DefaultOptions())
	warnings, err := c.ConvertFile(input, output)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v, want success despite the bad line", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestConvertFileMissingInput(t *testing.T) {
	c := mustConverter(t, DefaultOptions())
	if _, err := c.ConvertFile(filepath.Join(t.TempDir(), "absent.drum"), "out.mid"); err == nil {
		t.Error("ConvertFile() on a missing input = nil error, want error")
	}
}

func TestDumpFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "groove.drum")
	if err := os.WriteFile(input, []byte("SD ----X---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := mustConverter(t, DefaultOptions())
	out, warnings, err := c.DumpFile(input)
	if err != nil {
		t.Fatalf("DumpFile() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if !json.Valid(out) {
		t.Error("DumpFile() output is not valid JSON")
	}
}

func TestDumpFileMIDIInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "groove.drum")
	midiOut := filepath.Join(dir, "groove.mid")
	if err := os.WriteFile(input, []byte("BD X---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := mustConverter(t, DefaultOptions())
	if _, err := c.ConvertFile(input, midiOut); err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}

	out, warnings, err := c.DumpFile(midiOut)
	if err != nil {
		t.Fatalf("DumpFile() on MIDI error = %v", err)
	}
	if warnings != nil {
		t.Errorf("warnings = %v, want none for MIDI input", warnings)
	}
	var dump MIDIDump
	if err := json.Unmarshal(out, &dump); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(dump.Tracks) != 1 {
		t.Errorf("got %d tracks, want 1", len(dump.Tracks))
	}
}

func TestPatternFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.drum", "b.txt", "c.mid", "d.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("BD X---\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := PatternFiles(dir)
	if err != nil {
		t.Fatalf("PatternFiles() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.drum"), filepath.Join(dir, "b.txt")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("PatternFiles() = %v, want %v", files, want)
	}
}

func TestSupportedConversions(t *testing.T) {
	conversions := SupportedConversions()
	if len(conversions) != 3 {
		t.Fatalf("SupportedConversions() returned %d conversions, want 3", len(conversions))
	}
	if conversions[0] != "pattern -> midi" {
		t.Errorf("conversions[0] = %q, want %q", conversions[0], "pattern -> midi")
	}
}

func TestTrackName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"patterns/groove.drum", "groove"},
		{"groove", "groove"},
		{"a/b.with.dots.txt", "b.with.dots"},
	}
	for _, tt := range tests {
		if got := trackName(tt.path); got != tt.want {
			t.Errorf("trackName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
