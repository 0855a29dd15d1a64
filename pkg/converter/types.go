// Package converter turns a line-oriented drum pattern notation into
// Standard MIDI Files and JSON debug dumps of the generated MIDI.
package converter

import (
	"fmt"
	"strconv"
	"strings"
)

// DrumHit is one instrument line of a pattern: a MIDI note number and
// its step string. Note is an int on purpose: numeric keys in the text
// format are accepted without a range check and narrow to a byte only
// when the MIDI events are written.
type DrumHit struct {
	Note  int
	Steps string
}

// Pattern is a parsed drum pattern. After parsing, every hit's step
// string has exactly Length characters and the accent mask has at most
// Length entries (zero when the source had no AC line).
type Pattern struct {
	Name    string
	Hits    []DrumHit
	Accents []bool
	Length  int
}

// Accented reports whether the given step is accented. Steps beyond
// the mask are not accented.
func (p *Pattern) Accented(step int) bool {
	return step >= 0 && step < len(p.Accents) && p.Accents[step]
}

// String renders the pattern back in input notation, one line per
// instrument with the accent line last. Parsing the result yields an
// identical pattern.
func (p *Pattern) String() string {
	var b strings.Builder
	for _, h := range p.Hits {
		key, ok := DrumName(h.Note)
		if !ok {
			key = strconv.Itoa(h.Note)
		}
		fmt.Fprintf(&b, "%s %s\n", key, h.Steps)
	}
	if len(p.Accents) > 0 {
		b.WriteString("AC ")
		for _, on := range p.Accents {
			if on {
				b.WriteByte('X')
			} else {
				b.WriteByte('-')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// LineError reports a pattern line that could not be parsed. The line
// is dropped and parsing continues, so these are warnings rather than
// failures.
type LineError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Converter converts pattern text to MIDI using a fixed set of
// options. Options are validated once in New; the conversion paths
// assume they are in range.
type Converter struct {
	opts            Options
	ticksPerQuarter uint16
}

// New creates a Converter, rejecting out-of-range options.
func New(opts Options) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{opts: opts, ticksPerQuarter: ticksPerQuarter}, nil
}

// Options returns the options the converter was built with.
func (c *Converter) Options() Options {
	return c.opts
}
