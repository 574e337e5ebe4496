package letterstim

import (
	"fmt"
	"sync"

	"github.com/distortlab/letterstim/imageutil"
)

// Position is a canvas location in pixels, x to the right and y down.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Slot indexes the four letter positions. The order top, left, bottom,
// right is fixed: position codes and flanker groups depend on it.
type Slot int

const (
	SlotTop Slot = iota
	SlotLeft
	SlotBottom
	SlotRight
	numSlots
)

var slotCodes = [numSlots]string{"t", "l", "b", "r"}

// Code returns the single-letter code used in file names and response logs.
func (s Slot) Code() string {
	if s < 0 || s >= numSlots {
		return "?"
	}
	return slotCodes[s]
}

// Layout describes the stimulus canvas. Sizes are in pixels.
type Layout struct {
	CanvasSize      int         `yaml:"canvas_size"`
	Positions       [4]Position `yaml:"positions"`
	Fixation        Position    `yaml:"fixation"`
	GlyphSize       int         `yaml:"glyph_size"`
	TileSize        int         `yaml:"tile_size"`
	FixationSize    int         `yaml:"fixation_size"`
	Spacing         int         `yaml:"spacing"`
	PixelsPerDegree int         `yaml:"pixels_per_degree"`
	Letters         string      `yaml:"letters"`
	Flankers        string      `yaml:"flankers"`
}

// DefaultLayout places the Sloan letters D H K N at 8 degrees eccentricity
// (40 px/deg) on a 1024 px canvas, with C O R Z as flankers 2 degrees away.
func DefaultLayout() Layout {
	return Layout{
		CanvasSize: 1024,
		Positions: [4]Position{
			SlotTop:    {512, 192},
			SlotLeft:   {192, 512},
			SlotBottom: {512, 832},
			SlotRight:  {832, 512},
		},
		Fixation:        Position{512, 512},
		GlyphSize:       64,
		TileSize:        64 + 2*WindowRamp,
		FixationSize:    24,
		Spacing:         80,
		PixelsPerDegree: 40,
		Letters:         "DHKN",
		Flankers:        "CORZ",
	}
}

// Validate checks that the layout can be assembled.
func (l Layout) Validate() error {
	switch {
	case l.CanvasSize <= 0:
		return fmt.Errorf("canvas size %d: %w", l.CanvasSize, ErrInvalidConfig)
	case l.GlyphSize <= 0 || l.TileSize < l.GlyphSize:
		return fmt.Errorf("glyph %d in tile %d: %w", l.GlyphSize, l.TileSize, ErrInvalidConfig)
	case l.TileSize < 2*WindowRamp:
		return fmt.Errorf("tile %d smaller than edge window: %w", l.TileSize, ErrInvalidConfig)
	case l.FixationSize <= 0:
		return fmt.Errorf("fixation size %d: %w", l.FixationSize, ErrInvalidConfig)
	case l.Spacing < 0:
		return fmt.Errorf("spacing %d: %w", l.Spacing, ErrInvalidConfig)
	case l.PixelsPerDegree <= 0:
		return fmt.Errorf("pixels per degree %d: %w", l.PixelsPerDegree, ErrInvalidConfig)
	case len([]rune(l.Letters)) != int(numSlots):
		return fmt.Errorf("need %d letters, got %q: %w", numSlots, l.Letters, ErrInvalidConfig)
	case len([]rune(l.Flankers)) != int(numSlots):
		return fmt.Errorf("need %d flankers, got %q: %w", numSlots, l.Flankers, ErrInvalidConfig)
	}
	return nil
}

// SpacingDegrees is the target-flanker spacing in degrees of visual angle.
func (l Layout) SpacingDegrees() float64 {
	return float64(l.Spacing) / float64(l.PixelsPerDegree)
}

// FlankerPositions returns the flanker locations around p, in the order
// left, bottom, right, top.
func (l Layout) FlankerPositions(p Position) [4]Position {
	s := l.Spacing
	return [4]Position{
		{p.X - s, p.Y},
		{p.X, p.Y + s},
		{p.X + s, p.Y},
		{p.X, p.Y - s},
	}
}

// Trial holds the random choices behind one stimulus pair. Order[0] maps
// letter i to a slot; Order[1+g] maps flanker i of the group around slot g
// to one of that group's four flanker positions.
type Trial struct {
	Order  [1 + numSlots][]int
	Target int
}

// NewTrial draws a fresh arrangement and target letter from rng.
func NewTrial(rng Rand) Trial {
	var t Trial
	for i := range t.Order {
		t.Order[i] = rng.Perm(int(numSlots))
	}
	t.Target = rng.IntN(int(numSlots))
	return t
}

// TargetSlot is the slot the target letter is placed in.
func (t Trial) TargetSlot() Slot {
	return Slot(t.Order[0][t.Target])
}

// TargetLetter is the letter that receives the distortion.
func (l Layout) TargetLetter(t Trial) rune {
	return []rune(l.Letters)[t.Target]
}

// Assembler composes letter arrays onto a canvas. Letter tiles and the
// fixation target are rendered once and reused; an Assembler is safe for
// concurrent use.
type Assembler struct {
	layout   Layout
	glyphs   GlyphSource
	fixation *imageutil.Field

	mu    sync.Mutex
	tiles map[rune]*imageutil.Field
}

// NewAssembler validates layout and prepares the fixation target.
func NewAssembler(layout Layout, glyphs GlyphSource) (*Assembler, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if glyphs == nil {
		return nil, fmt.Errorf("no glyph source: %w", ErrInvalidConfig)
	}
	fix, err := FixationStimulus(layout.FixationSize)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		layout:   layout,
		glyphs:   glyphs,
		fixation: fix,
		tiles:    make(map[rune]*imageutil.Field),
	}, nil
}

// Layout returns the assembler's layout.
func (a *Assembler) Layout() Layout { return a.layout }

// Tile returns letter r resized to the glyph size and centred in a white
// tile whose margin equals the edge-window ramp, so distortion fades out
// before the tile border. The result must not be modified.
func (a *Assembler) Tile(r rune) (*imageutil.Field, error) {
	a.mu.Lock()
	t, ok := a.tiles[r]
	a.mu.Unlock()
	if ok {
		return t, nil
	}

	g, err := a.glyphs.Glyph(r)
	if err != nil {
		return nil, err
	}
	small, err := imageutil.ResizeField(g, a.layout.GlyphSize, imageutil.InterpolationArea)
	if err != nil {
		return nil, fmt.Errorf("resize %q: %w", r, err)
	}
	t = imageutil.Pad(small, a.layout.TileSize, 1)

	a.mu.Lock()
	a.tiles[r] = t
	a.mu.Unlock()
	return t, nil
}

// DistortFunc transforms the target letter tile.
type DistortFunc func(tile *imageutil.Field) (*imageutil.Field, error)

// Compose draws one stimulus: the four letters at their trial slots, the
// flankers when flanked is set, and the fixation target. Only the target
// letter is passed through distort; a nil distort gives the undistorted
// stimulus.
func (a *Assembler) Compose(t Trial, flanked bool, distort DistortFunc) (*imageutil.Field, error) {
	l := a.layout
	canvas := imageutil.NewFieldFilled(l.CanvasSize, 1)
	letters := []rune(l.Letters)
	flankers := []rune(l.Flankers)

	var groups [numSlots][4]Position
	if flanked {
		for s := range groups {
			groups[s] = l.FlankerPositions(l.Positions[s])
		}
	}

	for i, r := range letters {
		tile, err := a.Tile(r)
		if err != nil {
			return nil, err
		}
		if i == t.Target && distort != nil {
			if tile, err = distort(tile); err != nil {
				return nil, fmt.Errorf("distort %q: %w", r, err)
			}
		}
		p := l.Positions[t.Order[0][i]]
		canvas.Paste(tile, p.X, p.Y)

		if !flanked {
			continue
		}
		ft, err := a.Tile(flankers[i])
		if err != nil {
			return nil, err
		}
		for s := range groups {
			p := groups[s][t.Order[1+s][i]]
			canvas.Paste(ft, p.X, p.Y)
		}
	}

	canvas.Paste(a.fixation, l.Fixation.X, l.Fixation.Y)
	return canvas, nil
}
