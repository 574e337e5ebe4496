package imageutil

import (
	"fmt"
	"math"
)

// FillMode selects how the resampler treats source coordinates outside the
// image.
type FillMode int

const (
	// FillConstant reads a fixed value for every tap outside the image.
	FillConstant FillMode = iota

	// FillNearest clamps the source coordinate to the image, replicating
	// the border samples.
	FillNearest
)

// RemapOptions configures Remap.
type RemapOptions struct {
	Fill      FillMode
	FillValue float64
}

// DefaultRemapOptions fills with 1, the intensity of blank paper.
func DefaultRemapOptions() RemapOptions {
	return RemapOptions{Fill: FillConstant, FillValue: 1}
}

// Remap resamples src so that output pixel (x, y) takes the bilinearly
// interpolated source value at (x + dx[x,y], y + dy[x,y]).
//
// All three fields must share the same shape. With zero offsets the output
// is an exact copy of src. A NaN offset reads FillValue under FillConstant
// and leaves the sample in place under FillNearest.
func Remap(src, dx, dy *Field, opts RemapOptions) (*Field, error) {
	if err := checkRemapArgs(src, dx, dy); err != nil {
		return nil, err
	}

	n := src.Size
	dst := NewField(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			sx := float64(x) + dx.Pix[i]
			sy := float64(y) + dy.Pix[i]
			if opts.Fill == FillNearest {
				if math.IsNaN(sx) {
					sx = float64(x)
				}
				if math.IsNaN(sy) {
					sy = float64(y)
				}
			}
			dst.Pix[i] = bilinear(src, sx, sy, opts)
		}
	}
	return dst, nil
}

func checkRemapArgs(src, dx, dy *Field) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("remap source: %w", err)
	}
	if !src.SameShape(dx) || !src.SameShape(dy) {
		return fmt.Errorf("remap offsets: %w", ErrShapeMismatch)
	}
	return nil
}

// bilinear interpolates src at the non-integer coordinate (sx, sy).
func bilinear(src *Field, sx, sy float64, opts RemapOptions) float64 {
	n := src.Size
	last := float64(n - 1)

	if math.IsNaN(sx) || math.IsNaN(sy) {
		return opts.FillValue
	}

	switch opts.Fill {
	case FillNearest:
		sx = math.Max(0, math.Min(last, sx))
		sy = math.Max(0, math.Min(last, sy))
	default:
		// Every tap is outside the image.
		if sx <= -1 || sy <= -1 || sx >= float64(n) || sy >= float64(n) {
			return opts.FillValue
		}
	}

	x0 := math.Floor(sx)
	y0 := math.Floor(sy)
	fx := sx - x0
	fy := sy - y0
	ix, iy := int(x0), int(y0)

	v00 := tap(src, ix, iy, opts)
	v10 := tap(src, ix+1, iy, opts)
	v01 := tap(src, ix, iy+1, opts)
	v11 := tap(src, ix+1, iy+1, opts)

	return v00*(1-fx)*(1-fy) + v10*fx*(1-fy) + v01*(1-fx)*fy + v11*fx*fy
}

// tap reads one source sample, applying the fill policy out of range.
func tap(src *Field, x, y int, opts RemapOptions) float64 {
	n := src.Size
	if x >= 0 && x < n && y >= 0 && y < n {
		return src.Pix[y*n+x]
	}
	if opts.Fill == FillNearest {
		return src.Pix[clampInt(y, 0, n-1)*n+clampInt(x, 0, n-1)]
	}
	return opts.FillValue
}

// clampInt clamps an integer to the given range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
