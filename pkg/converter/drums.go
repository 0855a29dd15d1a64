package converter

import "strings"

// Drum is one entry of the fixed drum table: the pattern key, the
// General MIDI percussion note it maps to, and a display name.
type Drum struct {
	Key  string `json:"key"`
	Note int    `json:"note"`
	Name string `json:"name"`
}

// drumKit is the fixed key-to-note table of the pattern format,
// ordered by note number. Keys outside this table are read as plain
// decimal note numbers.
var drumKit = []Drum{
	{"BD", 36, "bass drum"},
	{"RS", 37, "rim shot"},
	{"SD", 38, "snare drum"},
	{"CP", 39, "hand clap"},
	{"CH", 42, "closed hi-hat"},
	{"LT", 43, "low tom"},
	{"OH", 46, "open hi-hat"},
	{"MT", 47, "mid tom"},
	{"CY", 49, "crash cymbal"},
	{"HT", 50, "high tom"},
	{"CB", 56, "cowbell"},
}

// DrumNote looks up a drum key (case-insensitive) and returns its note
// number.
func DrumNote(key string) (int, bool) {
	for _, d := range drumKit {
		if strings.EqualFold(d.Key, key) {
			return d.Note, true
		}
	}
	return 0, false
}

// DrumName is the reverse lookup: the pattern key for a note number.
func DrumName(note int) (string, bool) {
	for _, d := range drumKit {
		if d.Note == note {
			return d.Key, true
		}
	}
	return "", false
}

// Drums returns a copy of the drum table for listings.
func Drums() []Drum {
	out := make([]Drum, len(drumKit))
	copy(out, drumKit)
	return out
}
