package letterstim

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"

	"github.com/distortlab/letterstim/imageutil"
)

// DefaultGlyphTile is the side length, in pixels, glyphs are rendered at
// before being resized into a stimulus.
const DefaultGlyphTile = 256

// glyphFill is the fraction of the tile the larger glyph dimension occupies.
const glyphFill = 0.9

// GlyphSource maps a letter to a square grayscale image with dark ink on a
// white (1) background.
type GlyphSource interface {
	Glyph(r rune) (*imageutil.Field, error)
}

// glyphCache memoises glyph fields per rune. Cached fields are shared and
// treated as read-only.
type glyphCache struct {
	mu     sync.Mutex
	glyphs map[rune]*imageutil.Field
}

func (c *glyphCache) get(r rune, load func(rune) (*imageutil.Field, error)) (*imageutil.Field, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.glyphs[r]; ok {
		return g, nil
	}
	g, err := load(r)
	if err != nil {
		return nil, err
	}
	if c.glyphs == nil {
		c.glyphs = make(map[rune]*imageutil.Field)
	}
	c.glyphs[r] = g
	return g, nil
}

// FontGlyphs renders letters from a TrueType font, each centred on a square
// white tile.
type FontGlyphs struct {
	font  *truetype.Font
	tile  int
	cache glyphCache
}

// NewFontGlyphs parses TrueType data and renders glyphs on tiles of the
// given side length.
func NewFontGlyphs(ttf []byte, tile int) (*FontGlyphs, error) {
	if tile <= 0 {
		return nil, fmt.Errorf("glyph tile %d: %w", tile, ErrInvalidConfig)
	}
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontGlyphs{font: f, tile: tile}, nil
}

// DefaultFontGlyphs renders glyphs from the embedded Go Bold font.
func DefaultFontGlyphs() (*FontGlyphs, error) {
	return NewFontGlyphs(gobold.TTF, DefaultGlyphTile)
}

// LoadFontGlyphs loads a TrueType font from file.
func LoadFontGlyphs(path string, tile int) (*FontGlyphs, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return NewFontGlyphs(fontBytes, tile)
}

// Glyph returns the rendered letter. The result must not be modified.
func (g *FontGlyphs) Glyph(r rune) (*imageutil.Field, error) {
	return g.cache.get(r, g.render)
}

func (g *FontGlyphs) face(size float64) font.Face {
	return truetype.NewFace(g.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// render draws r in black on a white tile. The glyph is first measured at
// one em per tile, then re-rendered so its larger ink dimension fills
// glyphFill of the tile, and centred by its ink bounds.
func (g *FontGlyphs) render(r rune) (*imageutil.Field, error) {
	if g.font.Index(r) == 0 {
		return nil, fmt.Errorf("%q: %w", r, ErrUnknownGlyph)
	}
	s := string(r)

	size := float64(g.tile)
	probe := g.face(size)
	bounds, _ := font.BoundString(probe, s)
	probe.Close()
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%q has no ink: %w", r, ErrUnknownGlyph)
	}
	size *= glyphFill * float64(g.tile) / float64(max(w, h))

	face := g.face(size)
	defer face.Close()
	bounds, _ = font.BoundString(face, s)

	img := image.NewGray(image.Rect(0, 0, g.tile, g.tile))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// Place the dot so the ink box is centred on the tile.
	inkW := bounds.Max.X - bounds.Min.X
	inkH := bounds.Max.Y - bounds.Min.Y
	tile := fixed.I(g.tile)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot: fixed.Point26_6{
			X: (tile-inkW)/2 - bounds.Min.X,
			Y: (tile-inkH)/2 - bounds.Min.Y,
		},
	}
	d.DrawString(s)

	return imageutil.FieldFromImage(img)
}

// atlasExtensions are tried in order when looking up a letter image.
var atlasExtensions = []string{".png", ".tif", ".tiff", ".jpg", ".jpeg", ".gif"}

// AtlasGlyphs loads pre-rendered letter images named "<letter>.<ext>" from a
// directory, such as the output of cmd/render_glyphs.
type AtlasGlyphs struct {
	dir   string
	cache glyphCache
}

// NewAtlasGlyphs returns a glyph source reading from dir.
func NewAtlasGlyphs(dir string) (*AtlasGlyphs, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("glyph atlas: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("glyph atlas %s is not a directory: %w", dir, ErrInvalidConfig)
	}
	return &AtlasGlyphs{dir: dir}, nil
}

// Glyph returns the atlas image for r. The result must not be modified.
func (a *AtlasGlyphs) Glyph(r rune) (*imageutil.Field, error) {
	return a.cache.get(r, a.load)
}

func (a *AtlasGlyphs) load(r rune) (*imageutil.Field, error) {
	for _, ext := range atlasExtensions {
		path := filepath.Join(a.dir, string(r)+ext)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		return imageutil.LoadField(path)
	}
	return nil, fmt.Errorf("%q not found in %s: %w", r, a.dir, ErrUnknownGlyph)
}
