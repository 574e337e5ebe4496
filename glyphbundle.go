package letterstim

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"github.com/distortlab/letterstim/imageutil"
)

// GlyphBundle is a precomputed set of glyph fields that can be stored as a
// single gzipped gob file. It implements GlyphSource.
type GlyphBundle struct {
	FontName string
	Glyphs   map[rune]*imageutil.Field
}

// BuildGlyphBundle renders every letter in letters from src.
func BuildGlyphBundle(name string, src GlyphSource, letters []rune) (*GlyphBundle, error) {
	b := &GlyphBundle{
		FontName: name,
		Glyphs:   make(map[rune]*imageutil.Field, len(letters)),
	}
	for _, r := range letters {
		g, err := src.Glyph(r)
		if err != nil {
			return nil, err
		}
		b.Glyphs[r] = g.Clone()
	}
	return b, nil
}

// Glyph returns the stored field for r. The result must not be modified.
func (b *GlyphBundle) Glyph(r rune) (*imageutil.Field, error) {
	g, ok := b.Glyphs[r]
	if !ok {
		return nil, fmt.Errorf("%q not in bundle %s: %w", r, b.FontName, ErrUnknownGlyph)
	}
	return g, nil
}

// Letters returns the bundled letters in ascending order.
func (b *GlyphBundle) Letters() []rune {
	out := make([]rune, 0, len(b.Glyphs))
	for r := range b.Glyphs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Save writes the bundle to path as gzip-compressed gob.
func (b *GlyphBundle) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	gz := gzip.NewWriter(f)
	if err := gob.NewEncoder(gz).Encode(b); err != nil {
		gz.Close()
		f.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to close gzip: %w", err)
	}
	return f.Close()
}

// LoadGlyphBundle reads a bundle written by Save.
func LoadGlyphBundle(path string) (*GlyphBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glyph bundle: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var b GlyphBundle
	if err := gob.NewDecoder(gz).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode glyph bundle: %w", err)
	}
	for r, g := range b.Glyphs {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("glyph %q: %w", r, err)
		}
	}
	return &b, nil
}
