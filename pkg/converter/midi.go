package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ticksPerQuarter is the resolution of generated files. Subdivision
// codes map to 512/code ticks at this resolution, which stays integral
// for every accepted code down to the shortest flam.
const ticksPerQuarter uint16 = 128

// percussionChannel is the zero-based General MIDI drum channel
// (channel 10).
const percussionChannel = 9

// noteEvent is one synthesized event: an absolute start tick, a length
// in ticks, a velocity percentage and the pitches struck together.
type noteEvent struct {
	tick     uint32
	duration uint32
	velocity int
	notes    []int
}

// durationTicks converts a subdivision code (4 = quarter note, 16 =
// sixteenth, ...) to ticks.
func (c *Converter) durationTicks(code int) uint32 {
	return uint32(c.ticksPerQuarter) * 4 / uint32(code)
}

// timeSignature infers the meter from the step count: multiples of 8
// render as quarters (length/4 over 4), anything else as eighths
// (length over 8) with the step subdivision halved. The inference is
// purely step-count driven; the notation carries no meter of its own.
func timeSignature(length int) (num, denom uint8, halve bool) {
	if length%8 == 0 {
		return uint8(length / 4), 4, false
	}
	return uint8(length), 8, true
}

// buildEvents synthesizes the note events for a pattern. Silent steps
// accumulate into the wait of the next sounding step, flam steps gain
// a grace note ahead of the main hit, and accented steps play louder.
func (c *Converter) buildEvents(p *Pattern) (events []noteEvent, num, denom uint8) {
	num, denom, halve := timeSignature(p.Length)

	ticksPerNote := c.durationTicks(c.opts.NoteDuration)
	if halve {
		// Halving the subdivision code doubles the tick length.
		ticksPerNote *= 2
	}
	ticksPerFlam := c.durationTicks(c.opts.FlamDuration)

	var (
		cursor uint32 // end of the last main event
		wait   uint32 // silence accumulated since then
	)
	for step := 0; step < p.Length; step++ {
		var notes, flams []int
		for _, h := range p.Hits {
			if step >= len(h.Steps) {
				continue
			}
			switch h.Steps[step] {
			case 'X', 'x':
				notes = append(notes, h.Note)
			case 'F', 'f':
				// The flam never replaces its main hit.
				notes = append(notes, h.Note)
				flams = append(flams, h.Note)
			}
		}
		if len(notes) == 0 {
			wait += ticksPerNote
			continue
		}

		start := cursor + wait
		accented := p.Accented(step)

		if !c.opts.NoFlams {
			for _, note := range flams {
				// The grace note leads the main hit. At step 0 that
				// would land before tick zero, where it trails the
				// hit instead.
				graceTick := ticksPerFlam
				if start >= ticksPerFlam {
					graceTick = start - ticksPerFlam
				}
				velocity := c.opts.FlamVelocity
				if accented {
					velocity = c.opts.AccentVelocity
				}
				events = append(events, noteEvent{
					tick:     graceTick,
					duration: ticksPerFlam - 1,
					velocity: velocity,
					notes:    []int{note},
				})
			}
		}

		velocity := c.opts.NormalVelocity
		if accented {
			velocity = c.opts.AccentVelocity
		}
		events = append(events, noteEvent{
			tick:     start,
			duration: ticksPerNote,
			velocity: velocity,
			notes:    notes,
		})
		cursor = start + ticksPerNote
		wait = 0
	}
	return events, num, denom
}

// GenerateMIDI synthesizes a single-track Standard MIDI File from a
// pattern: a track-name meta event, the configured tempo, the inferred
// time signature, then the note events on the percussion channel.
func (c *Converter) GenerateMIDI(p *Pattern, trackName string) ([]byte, error) {
	if p == nil {
		return nil, errors.New("nil pattern")
	}

	events, num, denom := c.buildEvents(p)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(c.ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(trackName))
	track.Add(0, smf.MetaTempo(float64(c.opts.BPM)))
	track.Add(0, smf.MetaMeter(num, denom))

	// Grace notes start before the main hit they belong to, so the
	// on/off messages are laid out on absolute ticks first and turned
	// into deltas afterwards. The stable sort keeps note-offs ahead of
	// note-ons sharing a tick.
	type trackEvent struct {
		tick uint32
		msg  midi.Message
	}
	wire := make([]trackEvent, 0, len(events)*2)
	for _, ev := range events {
		velocity := velocityByte(ev.velocity)
		for _, note := range ev.notes {
			wire = append(wire, trackEvent{ev.tick, midi.NoteOn(percussionChannel, uint8(note), velocity)})
		}
		for _, note := range ev.notes {
			wire = append(wire, trackEvent{ev.tick + ev.duration, midi.NoteOff(percussionChannel, uint8(note))})
		}
	}
	sort.SliceStable(wire, func(i, j int) bool { return wire[i].tick < wire[j].tick })

	var currentTick uint32
	for _, w := range wire {
		track.Add(w.tick-currentTick, w.msg)
		currentTick = w.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// velocityByte maps a velocity percentage to the MIDI byte range.
func velocityByte(percent int) uint8 {
	return uint8(math.Round(float64(percent) * 127.0 / 100.0))
}
