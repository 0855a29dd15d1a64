package converter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("DefaultOptions().Validate() = %v, want nil", err)
	}
	if opts.BPM != 120 {
		t.Errorf("BPM = %d, want 120", opts.BPM)
	}
	if opts.NoteDuration != 16 {
		t.Errorf("NoteDuration = %d, want 16", opts.NoteDuration)
	}
	if opts.NoFlams {
		t.Error("NoFlams = true, want false")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(o *Options) {}, false},
		{"bpm too low", func(o *Options) { o.BPM = 29 }, true},
		{"bpm too high", func(o *Options) { o.BPM = 241 }, true},
		{"bpm lower bound", func(o *Options) { o.BPM = 30 }, false},
		{"bpm upper bound", func(o *Options) { o.BPM = 240 }, false},
		{"note duration not a power of two", func(o *Options) { o.NoteDuration = 12 }, true},
		{"note duration zero", func(o *Options) { o.NoteDuration = 0 }, true},
		{"whole note", func(o *Options) { o.NoteDuration = 1 }, false},
		{"accent velocity negative", func(o *Options) { o.AccentVelocity = -1 }, true},
		{"accent velocity over 100", func(o *Options) { o.AccentVelocity = 101 }, true},
		{"normal velocity over 100", func(o *Options) { o.NormalVelocity = 127 }, true},
		{"flam velocity zero", func(o *Options) { o.FlamVelocity = 0 }, false},
		{"flam duration not in set", func(o *Options) { o.FlamDuration = 100 }, true},
		{"flam duration equals note duration", func(o *Options) { o.NoteDuration = 64; o.FlamDuration = 64 }, true},
		{"flam duration shorter than note", func(o *Options) { o.NoteDuration = 64; o.FlamDuration = 128 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yml")
	content := "bpm: 90\nflam_duration: 256\nno_flams: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if opts.BPM != 90 || opts.FlamDuration != 256 || !opts.NoFlams {
		t.Errorf("overridden fields = %+v, want bpm 90, flam_duration 256, no_flams true", opts)
	}
	// Fields absent from the file keep their defaults.
	if opts.NoteDuration != 16 || opts.AccentVelocity != 90 {
		t.Errorf("default fields = %+v, want note_duration 16, accent_velocity 90", opts)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("LoadOptions() on a missing file = nil error, want error")
	}
}

func TestLoadOptionsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("bpm: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Error("LoadOptions() on broken YAML = nil error, want error")
	}
}

func TestNewValidatesOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.BPM = 0
	if _, err := New(opts); err == nil {
		t.Error("New() with invalid options = nil error, want error")
	}

	c, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New() with defaults = %v, want nil", err)
	}
	if got := c.Options(); got != DefaultOptions() {
		t.Errorf("Options() = %+v, want the defaults back", got)
	}
}
