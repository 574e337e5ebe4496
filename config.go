package letterstim

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is everything a generation run needs. Build it up front, from
// defaults, a YAML file or prompts, then hand it to NewGenerator.
type Config struct {
	Kind        Kind      `yaml:"kind"`
	Flanked     bool      `yaml:"flanked"`
	Frequencies []float64 `yaml:"frequencies"`
	Amplitudes  []float64 `yaml:"amplitudes"`
	Reps        int       `yaml:"reps"`
	OutDir      string    `yaml:"out_dir"`
	// Seed makes a run reproducible. 0 draws one from the clock.
	Seed uint64 `yaml:"seed"`
	// Workers is the number of concurrent jobs; 0 uses every CPU.
	Workers int `yaml:"workers"`
	// FontPath and AtlasDir select the glyph source. With neither set the
	// embedded Go Bold font is used.
	FontPath string `yaml:"font"`
	AtlasDir string `yaml:"atlas"`
	Layout   Layout `yaml:"layout"`
}

// DefaultFrequencies returns the built-in frequency set for k.
func DefaultFrequencies(k Kind) []float64 {
	switch k {
	case KindRF:
		return []float64{2, 3, 4, 5, 8, 12}
	case KindBex:
		return []float64{2, 4, 6, 8, 16, 32}
	}
	return nil
}

// DefaultAmplitudes returns the built-in amplitude set for k.
func DefaultAmplitudes(k Kind) []float64 {
	switch k {
	case KindRF:
		return []float64{0.01, 0.0617, 0.1133, 0.1650, 0.2167, 0.2683, 0.32}
	case KindBex:
		return []float64{0.5, 1, 1.5, 2, 2.5, 3, 5}
	}
	return nil
}

// DefaultConfig returns an unflanked, single-repetition configuration with
// the built-in parameter sets for k.
func DefaultConfig(k Kind) Config {
	return Config{
		Kind:        k,
		Frequencies: DefaultFrequencies(k),
		Amplitudes:  DefaultAmplitudes(k),
		Reps:        1,
		OutDir:      "stimuli_out",
		Layout:      DefaultLayout(),
	}
}

// ResolveSeed returns Seed, or a clock-derived seed when Seed is 0.
func (c Config) ResolveSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	if s := uint64(time.Now().UnixNano()); s != 0 {
		return s
	}
	return 1
}

// WorkerCount resolves Workers to a positive number.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if _, err := ParseKind(string(c.Kind)); err != nil {
		return err
	}
	if len(c.Frequencies) == 0 {
		return fmt.Errorf("no frequencies: %w", ErrInvalidConfig)
	}
	if len(c.Amplitudes) == 0 {
		return fmt.Errorf("no amplitudes: %w", ErrInvalidConfig)
	}
	for _, f := range c.Frequencies {
		for _, a := range c.Amplitudes {
			if err := (Params{Kind: c.Kind, Amplitude: a, Frequency: f}).Validate(); err != nil {
				return err
			}
		}
	}
	if c.Reps <= 0 {
		return fmt.Errorf("reps %d: %w", c.Reps, ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	}
	if c.OutDir == "" {
		return fmt.Errorf("empty output directory: %w", ErrInvalidConfig)
	}
	if c.FontPath != "" && c.AtlasDir != "" {
		return fmt.Errorf("font and atlas are mutually exclusive: %w", ErrInvalidConfig)
	}
	return c.Layout.Validate()
}

// Glyphs opens the glyph source the configuration selects. A path ending
// in .gob.gz is read as a GlyphBundle.
func (c Config) Glyphs() (GlyphSource, error) {
	switch {
	case c.AtlasDir != "":
		return NewAtlasGlyphs(c.AtlasDir)
	case c.FontPath != "" && strings.HasSuffix(strings.ToLower(c.FontPath), ".gob.gz"):
		return LoadGlyphBundle(c.FontPath)
	case c.FontPath != "":
		return LoadFontGlyphs(c.FontPath, DefaultGlyphTile)
	}
	return DefaultFontGlyphs()
}

// LoadConfig reads a YAML configuration. Keys missing from the file keep
// the defaults for the file's kind.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration data over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Kind Kind `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	k, err := ParseKind(string(head.Kind))
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig(k)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Kind = k
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
