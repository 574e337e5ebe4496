package imageutil

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// FieldFromImage converts a square image to a field of luminance values in
// [0, 1], using the BT.601 weights applied by color.Gray16Model.
func FieldFromImage(img image.Image) (*Field, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmptyImage
	}
	if w != h {
		return nil, fmt.Errorf("%dx%d image: %w", w, h, ErrNotSquare)
	}

	f := NewField(w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			f.Pix[y*w+x] = float64(g.Y) / 0xffff
		}
	}
	return f, nil
}

// ToGray converts the field to an 8-bit image. Samples are clamped to [0, 1].
func (f *Field) ToGray() *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, f.Size, f.Size))
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			gray.Pix[y*gray.Stride+x] = clampUint8(f.Pix[y*f.Size+x] * 255)
		}
	}
	return gray
}

// ToGray16 converts the field to a 16-bit image. Samples are clamped to [0, 1].
func (f *Field) ToGray16() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Size, f.Size))
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			v := math.Round(clampUnit(f.Pix[y*f.Size+x]) * 0xffff)
			img.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}
	return img
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
