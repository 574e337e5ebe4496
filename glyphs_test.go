package letterstim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distortlab/letterstim/imageutil"
)

// inkBounds returns the bounding box of samples darker than 0.5.
func inkBounds(f *imageutil.Field) (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = f.Size, f.Size
	x1, y1 = -1, -1
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			if f.At(x, y) < 0.5 {
				x0, y0 = min(x0, x), min(y0, y)
				x1, y1 = max(x1, x), max(y1, y)
			}
		}
	}
	return x0, y0, x1, y1, x1 >= 0
}

func TestFontGlyphsSloanLetters(t *testing.T) {
	glyphs, err := DefaultFontGlyphs()
	require.NoError(t, err)

	for _, r := range "DHKNCORZ" {
		g, err := glyphs.Glyph(r)
		require.NoError(t, err, "letter %q", r)
		require.Equal(t, DefaultGlyphTile, g.Size)

		assert.Equal(t, 1.0, g.At(0, 0), "%q: corners should be white paper", r)
		assert.Equal(t, 1.0, g.At(g.Size-1, g.Size-1), "%q: corners should be white paper", r)

		x0, y0, x1, y1, ok := inkBounds(g)
		require.True(t, ok, "%q has no ink", r)

		w, h := x1-x0+1, y1-y0+1
		fill := glyphFill
		want := int(fill * float64(DefaultGlyphTile))
		assert.InDelta(t, want, max(w, h), 8, "%q: larger side %d", r, max(w, h))

		cx := float64(x0+x1) / 2
		cy := float64(y0+y1) / 2
		assert.InDelta(t, float64(g.Size-1)/2, cx, 4, "%q: horizontal centre", r)
		assert.InDelta(t, float64(g.Size-1)/2, cy, 4, "%q: vertical centre", r)
	}
}

func TestFontGlyphsCached(t *testing.T) {
	glyphs, err := DefaultFontGlyphs()
	require.NoError(t, err)
	a, err := glyphs.Glyph('K')
	require.NoError(t, err)
	b, err := glyphs.Glyph('K')
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestFontGlyphsErrors(t *testing.T) {
	glyphs, err := DefaultFontGlyphs()
	require.NoError(t, err)
	_, err = glyphs.Glyph('\ue000')
	assert.ErrorIs(t, err, ErrUnknownGlyph)

	_, err = NewFontGlyphs([]byte("not a font"), 64)
	assert.Error(t, err)

	_, err = NewFontGlyphs(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadFontGlyphs(filepath.Join(t.TempDir(), "missing.ttf"), 64)
	assert.Error(t, err)
}

func TestAtlasGlyphs(t *testing.T) {
	dir := t.TempDir()
	disk := imageutil.CreateDiskField(48, 16)
	require.NoError(t, imageutil.SaveField(disk, filepath.Join(dir, "D.png")))

	atlas, err := NewAtlasGlyphs(dir)
	require.NoError(t, err)

	g, err := atlas.Glyph('D')
	require.NoError(t, err)
	assert.Equal(t, 48, g.Size)
	assert.Less(t, imageutil.CalculateMaxDiff(g, disk), 1.0/255+1e-9)

	_, err = atlas.Glyph('H')
	assert.ErrorIs(t, err, ErrUnknownGlyph)

	file := filepath.Join(dir, "D.png")
	_, err = NewAtlasGlyphs(file)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewAtlasGlyphs(filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGlyphBundleRoundTrip(t *testing.T) {
	glyphs, err := DefaultFontGlyphs()
	require.NoError(t, err)

	b, err := BuildGlyphBundle("gobold", glyphs, []rune("HD"))
	require.NoError(t, err)
	assert.Equal(t, []rune("DH"), b.Letters())

	path := filepath.Join(t.TempDir(), "sloan.gob.gz")
	require.NoError(t, b.Save(path))

	loaded, err := LoadGlyphBundle(path)
	require.NoError(t, err)
	assert.Equal(t, "gobold", loaded.FontName)
	for _, r := range "DH" {
		want, _ := glyphs.Glyph(r)
		got, err := loaded.Glyph(r)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "%q differs after reload", r)
	}

	_, err = loaded.Glyph('Z')
	assert.ErrorIs(t, err, ErrUnknownGlyph)

	_, err = BuildGlyphBundle("gobold", glyphs, []rune{'\ue000'})
	assert.ErrorIs(t, err, ErrUnknownGlyph)
}

func TestConfigGlyphsSelectsSource(t *testing.T) {
	cfg := DefaultConfig(KindBex)
	src, err := cfg.Glyphs()
	require.NoError(t, err)
	assert.IsType(t, &FontGlyphs{}, src)

	cfg.AtlasDir = t.TempDir()
	src, err = cfg.Glyphs()
	require.NoError(t, err)
	assert.IsType(t, &AtlasGlyphs{}, src)
}
