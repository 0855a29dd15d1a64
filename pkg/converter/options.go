package converter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options control tempo, note lengths and velocities of the generated
// MIDI. Velocities are percentages of full MIDI velocity. Durations
// are subdivision codes: 4 is a quarter note, 16 a sixteenth and so
// on.
type Options struct {
	BPM            int  `yaml:"bpm" json:"bpm"`
	NoteDuration   int  `yaml:"note_duration" json:"note_duration"`
	AccentVelocity int  `yaml:"accent_velocity" json:"accent_velocity"`
	NormalVelocity int  `yaml:"normal_velocity" json:"normal_velocity"`
	FlamVelocity   int  `yaml:"flam_velocity" json:"flam_velocity"`
	FlamDuration   int  `yaml:"flam_duration" json:"flam_duration"`
	NoFlams        bool `yaml:"no_flams" json:"no_flams"`
}

// DefaultOptions returns the defaults: 120 BPM sixteenth-note steps
// with flams enabled.
func DefaultOptions() Options {
	return Options{
		BPM:            120,
		NoteDuration:   16,
		AccentVelocity: 90,
		NormalVelocity: 70,
		FlamVelocity:   40,
		FlamDuration:   128,
		NoFlams:        false,
	}
}

// LoadOptions reads a YAML options file over the defaults, so a file
// may set any subset of the fields. The result is not validated here;
// validation happens once when the Converter is built.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}
	return opts, nil
}

// Validate checks every option against its allowed range. FlamDuration
// is compared against the requested NoteDuration, before any halving
// the time signature may apply later.
func (o Options) Validate() error {
	if o.BPM < 30 || o.BPM > 240 {
		return fmt.Errorf("bpm %d out of range: must be between 30 and 240", o.BPM)
	}
	switch o.NoteDuration {
	case 1, 2, 4, 8, 16, 32, 64:
	default:
		return fmt.Errorf("note duration %d: must be one of 1, 2, 4, 8, 16, 32, 64", o.NoteDuration)
	}
	if err := velocityInRange("accent", o.AccentVelocity); err != nil {
		return err
	}
	if err := velocityInRange("normal", o.NormalVelocity); err != nil {
		return err
	}
	if err := velocityInRange("flam", o.FlamVelocity); err != nil {
		return err
	}
	switch o.FlamDuration {
	case 64, 128, 256:
	default:
		return fmt.Errorf("flam duration %d: must be one of 64, 128, 256", o.FlamDuration)
	}
	if o.FlamDuration <= o.NoteDuration {
		return fmt.Errorf("flam duration %d must be shorter than the note duration (use a code greater than %d)", o.FlamDuration, o.NoteDuration)
	}
	return nil
}

func velocityInRange(name string, v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s velocity %d out of range: must be between 0 and 100", name, v)
	}
	return nil
}
