package converter

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParsePattern parses drum pattern text. Each line holds a drum key
// and a step string; AC lines carry the accent mask. Lines that do not
// split into exactly two fields are skipped silently, lines with an
// unknown key are reported as LineErrors and dropped. The pattern
// length is the shortest step string among the accepted lines and
// every hit is truncated to it, so parsing never fails outright.
func ParsePattern(data []byte, source string) (*Pattern, []LineError) {
	p := &Pattern{Name: source}
	var lineErrs []LineError

	// -1 until the first accepted line; a file with none parses to an
	// empty pattern of length 0.
	minLen := -1

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		key, steps := fields[0], fields[1]

		if strings.EqualFold(key, "AC") {
			// A later AC line replaces an earlier one outright, but
			// both count toward the pattern length.
			mask := make([]bool, len(steps))
			for i := 0; i < len(steps); i++ {
				mask[i] = steps[i] == 'X' || steps[i] == 'x'
			}
			p.Accents = mask
			if minLen == -1 || len(steps) < minLen {
				minLen = len(steps)
			}
			continue
		}

		note, ok := DrumNote(key)
		if !ok {
			n, err := strconv.Atoi(key)
			if err != nil {
				lineErrs = append(lineErrs, LineError{
					Source: source,
					Line:   lineNo,
					Text:   line,
					Err:    fmt.Errorf("unknown drum %q", key),
				})
				continue
			}
			// Numeric keys pass through unchecked.
			note = n
		}

		p.Hits = append(p.Hits, DrumHit{Note: note, Steps: steps})
		if minLen == -1 || len(steps) < minLen {
			minLen = len(steps)
		}
	}

	if minLen == -1 {
		minLen = 0
	}
	p.Length = minLen
	for i := range p.Hits {
		p.Hits[i].Steps = p.Hits[i].Steps[:minLen]
	}
	if p.Accents != nil && len(p.Accents) > minLen {
		p.Accents = p.Accents[:minLen]
	}
	return p, lineErrs
}
