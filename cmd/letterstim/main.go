// Command letterstim generates distorted letter-array stimuli.
//
// Usage:
//
//	letterstim [flags] <bex|rf> <flanked> <nfreqs> <namps> <reps>
//	letterstim -config run.yaml [flags]
//
// A count of 0 for nfreqs or namps uses the built-in parameter set for the
// distortion kind; a positive count prompts for that many values.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/distortlab/letterstim"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const usage = "usage: letterstim [flags] <bex|rf> <flanked> <nfreqs> <namps> <reps>"

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("letterstim", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "YAML configuration file")
	outDir := fs.String("out", "", "Output directory (default stimuli_out)")
	seed := fs.Uint64("seed", 0, "Random seed (default from config; 0 picks one from the clock)")
	workers := fs.Int("workers", 0, "Concurrent jobs (0 = all CPUs)")
	fontPath := fs.String("font", "", "TrueType font or .gob.gz glyph bundle")
	atlasDir := fs.String("atlas", "", "Directory of pre-rendered letter images")
	verbose := fs.Bool("v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	letterstim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, counts, err := buildConfig(*configPath, fs.Args())
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["out"] {
		cfg.OutDir = *outDir
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["font"] {
		cfg.FontPath = *fontPath
	}
	if set["atlas"] {
		cfg.AtlasDir = *atlasDir
	}

	if err := letterstim.NewPrompter(stdin, stdout).Fill(&cfg, counts[0], counts[1]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	glyphs, err := cfg.Glyphs()
	if err != nil {
		return err
	}
	gen, err := letterstim.NewGenerator(cfg, glyphs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	sum, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d stimuli for %d jobs to %s in %.1fs (seed %d)\n",
		len(sum.Files), sum.Jobs, cfg.OutDir, time.Since(start).Seconds(), sum.Seed)
	return nil
}

// buildConfig starts from the config file, if any, and applies the
// positional arguments. It returns the prompt counts for frequencies and
// amplitudes.
func buildConfig(path string, pos []string) (letterstim.Config, [2]int, error) {
	var counts [2]int
	if path == "" && len(pos) == 0 {
		return letterstim.Config{}, counts, errors.New(usage)
	}
	if len(pos) != 0 && len(pos) != 5 {
		return letterstim.Config{}, counts, fmt.Errorf("expected 5 arguments, got %d\n%s", len(pos), usage)
	}

	var cfg letterstim.Config
	if path != "" {
		c, err := letterstim.LoadConfig(path)
		if err != nil {
			return cfg, counts, err
		}
		cfg = c
	}
	if len(pos) == 0 {
		return cfg, counts, nil
	}

	kind, err := letterstim.ParseKind(pos[0])
	if err != nil {
		return cfg, counts, err
	}
	switch {
	case path == "":
		cfg = letterstim.DefaultConfig(kind)
	case cfg.Kind != kind:
		// The file's parameter sets belong to the other kind.
		cfg.Kind = kind
		cfg.Frequencies = letterstim.DefaultFrequencies(kind)
		cfg.Amplitudes = letterstim.DefaultAmplitudes(kind)
	}
	cfg.Flanked = strings.EqualFold(pos[1], "true")

	ints := make([]int, 3)
	for i, name := range []string{"nfreqs", "namps", "reps"} {
		n, err := strconv.Atoi(pos[2+i])
		if err != nil || n < 0 {
			return cfg, counts, fmt.Errorf("%s must be a non-negative integer, got %q", name, pos[2+i])
		}
		ints[i] = n
	}
	counts = [2]int{ints[0], ints[1]}
	cfg.Reps = ints[2]
	return cfg, counts, nil
}
