package letterstim

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/distortlab/letterstim/imageutil"
)

const (
	// FixationDrawSize is the side length the fixation target is drawn at.
	FixationDrawSize = 256
	// FixationPadSize is the white tile the drawing is centred in before
	// being shrunk, leaving a margin around the target.
	FixationPadSize = 272
)

// FixationTarget draws a bull's-eye and cross-hair fixation target (Thaler
// et al., 2013) on a white square of the given size: a black disk, a white
// cross through it and a small black disk at the centre.
func FixationTarget(size int) (*imageutil.Field, error) {
	if size <= 0 {
		return nil, fmt.Errorf("fixation size %d: %w", size, imageutil.ErrEmptyImage)
	}
	s := float64(size)
	c := s / 2
	bar := s / 3

	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	dc.DrawCircle(c, c, s/2)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawRectangle(0, c-bar/2, s, bar)
	dc.DrawRectangle(c-bar/2, 0, bar, s)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.DrawCircle(c, c, bar/2)
	dc.Fill()

	return imageutil.FieldFromImage(dc.Image())
}

// FixationStimulus renders the fixation target as it appears on the canvas:
// drawn at FixationDrawSize, centred on a FixationPadSize white tile and
// resized to size pixels.
func FixationStimulus(size int) (*imageutil.Field, error) {
	target, err := FixationTarget(FixationDrawSize)
	if err != nil {
		return nil, err
	}
	padded := imageutil.Pad(target, FixationPadSize, 1)
	return imageutil.ResizeField(padded, size, imageutil.InterpolationArea)
}
