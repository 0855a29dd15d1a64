package converter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIDump is the JSON debug view of a MIDI file.
type MIDIDump struct {
	Resolution uint16      `json:"resolution"`
	Tracks     []TrackDump `json:"tracks"`
}

// TrackDump holds one track's metadata and note events.
type TrackDump struct {
	Name          string      `json:"name,omitempty"`
	Tempo         float64     `json:"tempo,omitempty"`
	TimeSignature string      `json:"time_signature,omitempty"`
	Events        []EventDump `json:"events"`
}

// EventDump is a single note message at an absolute tick. Drum is
// filled when the note maps back to a key of the drum table.
type EventDump struct {
	Tick     uint64 `json:"tick"`
	Type     string `json:"type"`
	Channel  uint8  `json:"channel"`
	Note     uint8  `json:"note"`
	Drum     string `json:"drum,omitempty"`
	Velocity uint8  `json:"velocity,omitempty"`
}

// DumpMIDI decodes a Standard MIDI File into an indented JSON
// document: resolution, per-track tempo, time signature and name, and
// the note events with absolute ticks.
func DumpMIDI(data []byte) ([]byte, error) {
	dump, err := decodeMIDI(data)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(dump, "", "  ")
}

func decodeMIDI(data []byte) (*MIDIDump, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	dump := &MIDIDump{}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		dump.Resolution = mt.Resolution()
	}

	for _, track := range s.Tracks {
		td := TrackDump{Events: []EventDump{}}
		var currentTick uint64

		for _, ev := range track {
			currentTick += uint64(ev.Delta)
			msg := ev.Message

			// Meta events: FF <type> <len> <data>
			if len(msg) >= 3 && msg[0] == 0xFF {
				switch msg[1] {
				case 0x03: // track name
					if n := int(msg[2]); 3+n <= len(msg) {
						td.Name = string(msg[3 : 3+n])
					}
				case 0x51: // tempo
					if len(msg) >= 6 && msg[2] == 0x03 {
						microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
						if microsecondsPerBeat > 0 {
							td.Tempo = 60000000.0 / float64(microsecondsPerBeat)
						}
					}
				case 0x58: // time signature
					if len(msg) >= 7 && msg[2] == 0x04 {
						td.TimeSignature = fmt.Sprintf("%d/%d", msg[3], uint(1)<<msg[4])
					}
				}
				continue
			}

			// Note On: 0x9n nn vv, Note Off: 0x8n nn vv. A note on
			// with velocity zero counts as a note off.
			if len(msg) >= 3 {
				status, note, velocity := msg[0], msg[1], msg[2]
				if status >= 0x90 && status <= 0x9F && velocity > 0 {
					td.Events = append(td.Events, newEventDump(currentTick, "note_on", status&0x0F, note, velocity))
				}
				if (status >= 0x80 && status <= 0x8F) || (status >= 0x90 && status <= 0x9F && velocity == 0) {
					td.Events = append(td.Events, newEventDump(currentTick, "note_off", status&0x0F, note, 0))
				}
			}
		}
		dump.Tracks = append(dump.Tracks, td)
	}
	return dump, nil
}

func newEventDump(tick uint64, typ string, channel, note, velocity uint8) EventDump {
	d := EventDump{Tick: tick, Type: typ, Channel: channel, Note: note, Velocity: velocity}
	if name, ok := DrumName(int(note)); ok {
		d.Drum = name
	}
	return d
}
