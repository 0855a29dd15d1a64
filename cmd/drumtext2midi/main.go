// Package main is the entry point for drumtext2midi CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/drumtext2midi/pkg/api"
	"github.com/james-see/drumtext2midi/pkg/converter"
	"github.com/james-see/drumtext2midi/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputPath  string
	optionsFile string
	serverPort  int

	bpm            int
	noteDuration   int
	accentVelocity int
	normalVelocity int
	flamVelocity   int
	flamDuration   int
	noFlams        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drumtext2midi",
	Short: "Convert drum pattern text files to MIDI",
	Long: `drumtext2midi renders line-oriented drum pattern text files as
Standard MIDI Files, with optional flam grace notes.

A pattern file holds one instrument per line: a drum key (BD, SD, CH, ...)
or a raw MIDI note number, then a step string where X is a hit, F a flam
and anything else silence. An AC line marks the accented steps.

Examples:
  drumtext2midi convert groove.drum
  drumtext2midi convert patterns/ -o rendered/
  drumtext2midi convert groove.drum --bpm 140 --no-flams
  drumtext2midi dump groove.drum
  drumtext2midi drums
  drumtext2midi tui
  drumtext2midi serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <input...>",
	Short: "Convert pattern files or directories to MIDI",
	Long: `Converts pattern files to .mid files. Directory arguments expand to the
*.drum and *.txt files they contain. Files convert one at a time; the
first file that fails stops the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var dumpCmd = &cobra.Command{
	Use:   "dump <input>",
	Short: "Print the generated MIDI as JSON",
	Long: `Renders a pattern file and prints the resulting MIDI file decoded as
JSON. A .mid input is decoded directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

var drumsCmd = &cobra.Command{
	Use:   "drums",
	Short: "List the drum keys and their MIDI notes",
	Args:  cobra.NoArgs,
	RunE:  runDrums,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Conversion options, shared by convert, dump and tui
	defaults := converter.DefaultOptions()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&optionsFile, "options", "", "YAML file with conversion options")
	pf.IntVar(&bpm, "bpm", defaults.BPM, "Tempo in beats per minute (30-240)")
	pf.IntVar(&noteDuration, "note-duration", defaults.NoteDuration, "Step subdivision code: 1, 2, 4, 8, 16, 32 or 64")
	pf.IntVar(&accentVelocity, "accent-velocity", defaults.AccentVelocity, "Velocity of accented hits (0-100)")
	pf.IntVar(&normalVelocity, "normal-velocity", defaults.NormalVelocity, "Velocity of normal hits (0-100)")
	pf.IntVar(&flamVelocity, "flam-velocity", defaults.FlamVelocity, "Velocity of flam grace notes (0-100)")
	pf.IntVar(&flamDuration, "flam-duration", defaults.FlamDuration, "Flam subdivision code: 64, 128 or 256")
	pf.BoolVar(&noFlams, "no-flams", false, "Render flam steps as plain hits")

	// Convert command
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, or directory for multiple inputs")

	// Dump command
	dumpCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")

	// Serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(drumsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// buildOptions layers the option sources: defaults, then the YAML file,
// then any flag set explicitly on the command line.
func buildOptions(cmd *cobra.Command) (converter.Options, error) {
	opts := converter.DefaultOptions()
	if optionsFile != "" {
		var err error
		opts, err = converter.LoadOptions(optionsFile)
		if err != nil {
			return opts, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bpm") {
		opts.BPM = bpm
	}
	if flags.Changed("note-duration") {
		opts.NoteDuration = noteDuration
	}
	if flags.Changed("accent-velocity") {
		opts.AccentVelocity = accentVelocity
	}
	if flags.Changed("normal-velocity") {
		opts.NormalVelocity = normalVelocity
	}
	if flags.Changed("flam-velocity") {
		opts.FlamVelocity = flamVelocity
	}
	if flags.Changed("flam-duration") {
		opts.FlamDuration = flamDuration
	}
	if flags.Changed("no-flams") {
		opts.NoFlams = noFlams
	}
	return opts, nil
}

// newConverter validates the options once, before any input file is
// touched.
func newConverter(cmd *cobra.Command) (*converter.Converter, error) {
	opts, err := buildOptions(cmd)
	if err != nil {
		return nil, err
	}
	return converter.New(opts)
}

func getOutputPath(input, defaultExt string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runConvert(cmd *cobra.Command, args []string) error {
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}

	// Expand directory arguments into the pattern files they contain
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		files, err := converter.PatternFiles(arg)
		if err != nil {
			return err
		}
		inputs = append(inputs, files...)
	}

	multi := len(inputs) > 1
	var outDir string
	if outputPath != "" {
		info, err := os.Stat(outputPath)
		switch {
		case err == nil && info.IsDir():
			outDir = outputPath
		case multi:
			return fmt.Errorf("output %s must be an existing directory when converting multiple files", outputPath)
		}
	}

	for _, input := range inputs {
		output := convertOutput(input, outDir)
		fmt.Printf("Converting %s -> %s\n", input, output)

		warnings, err := conv.ConvertFile(input, output)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %v\n", w)
		}
		if err != nil {
			// The first failing file stops the batch
			return err
		}
	}

	fmt.Println("Conversion complete!")
	return nil
}

func convertOutput(input, outDir string) string {
	if outDir != "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		return filepath.Join(outDir, base+".mid")
	}
	if outputPath != "" {
		return outputPath
	}
	return getOutputPath(input, ".mid")
}

func runDump(cmd *cobra.Command, args []string) error {
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}

	out, warnings, err := conv.DumpFile(args[0])
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	fmt.Printf("Wrote %s\n", outputPath)
	return nil
}

func runDrums(cmd *cobra.Command, args []string) error {
	fmt.Println("Drum keys:")
	for _, d := range converter.Drums() {
		fmt.Printf("  %-3s %3d  %s\n", d.Key, d.Note, d.Name)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	return tui.Run(opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
