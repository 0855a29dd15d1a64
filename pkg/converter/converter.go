package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Format represents a file format.
type Format string

const (
	FormatPattern Format = "pattern"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on its extension.
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".drum", ".txt":
		return FormatPattern
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent sniffs the format from file content: the
// "MThd" signature means MIDI, everything else is read as pattern
// text.
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}
	return FormatPattern
}

// Convert parses pattern text and synthesizes the MIDI file. The name
// is used for line warnings and, stripped of its extension, as the
// track name.
func (c *Converter) Convert(data []byte, name string) ([]byte, []LineError, error) {
	pattern, lineErrs := ParsePattern(data, name)
	midiData, err := c.GenerateMIDI(pattern, trackName(name))
	if err != nil {
		return nil, lineErrs, err
	}
	return midiData, lineErrs, nil
}

// ConvertFile converts a pattern file to a MIDI file on disk. Line
// warnings are returned to the caller; read and write failures abort
// with the offending path wrapped in.
func (c *Converter) ConvertFile(inputPath, outputPath string) ([]LineError, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	midiData, lineErrs, err := c.Convert(data, inputPath)
	if err != nil {
		return lineErrs, fmt.Errorf("failed to convert %s: %w", inputPath, err)
	}
	if err := os.WriteFile(outputPath, midiData, 0644); err != nil {
		return lineErrs, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return lineErrs, nil
}

// Dump renders the JSON debug view. Pattern text is converted first;
// data that already is a MIDI file is decoded as-is.
func (c *Converter) Dump(data []byte, name string) ([]byte, []LineError, error) {
	if DetectFormatFromContent(data) == FormatMIDI {
		out, err := DumpMIDI(data)
		return out, nil, err
	}
	midiData, lineErrs, err := c.Convert(data, name)
	if err != nil {
		return nil, lineErrs, err
	}
	out, err := DumpMIDI(midiData)
	return out, lineErrs, err
}

// DumpFile reads a pattern or MIDI file and returns its JSON debug
// view.
func (c *Converter) DumpFile(inputPath string) ([]byte, []LineError, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	return c.Dump(data, inputPath)
}

// PatternFiles lists the pattern files (*.drum, *.txt) in a directory.
func PatternFiles(dir string) ([]string, error) {
	var files []string
	for _, glob := range []string{"*.drum", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(dir, glob))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// SupportedConversions returns the conversion paths the tool offers.
func SupportedConversions() []string {
	return []string{
		"pattern -> midi",
		"pattern -> json",
		"midi -> json",
	}
}

// trackName derives the MIDI track name from a source filename by
// stripping the directory and extension.
func trackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
