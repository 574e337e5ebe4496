package imageutil

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Field is a square grid of real-valued samples stored row-major.
// It is used both for image intensities and for per-pixel offsets.
type Field struct {
	Size int
	Pix  []float64
}

// NewField creates a zero-valued field of the given side length.
func NewField(size int) *Field {
	return &Field{
		Size: size,
		Pix:  make([]float64, size*size),
	}
}

// NewFieldFilled creates a field with every sample set to v.
func NewFieldFilled(size int, v float64) *Field {
	f := NewField(size)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

// FieldFromRows builds a field from a 2D slice indexed [y][x].
func FieldFromRows(rows [][]float64) (*Field, error) {
	size := len(rows)
	if size == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyImage
	}
	f := NewField(size)
	for y, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d samples, want %d: %w",
				y, len(row), size, ErrNotSquare)
		}
		copy(f.Pix[y*size:], row)
	}
	return f, nil
}

// Validate reports whether the field is a well-formed, non-empty square grid.
func (f *Field) Validate() error {
	if f == nil || f.Size <= 0 {
		return ErrEmptyImage
	}
	if len(f.Pix) != f.Size*f.Size {
		return fmt.Errorf("%d samples for side %d: %w", len(f.Pix), f.Size, ErrNotSquare)
	}
	return nil
}

// SameShape reports whether g has the same side length as f.
func (f *Field) SameShape(g *Field) bool {
	return g != nil && f.Size == g.Size && len(f.Pix) == len(g.Pix)
}

// At returns the sample at column x, row y.
func (f *Field) At(x, y int) float64 {
	return f.Pix[y*f.Size+x]
}

// Set sets the sample at column x, row y.
func (f *Field) Set(x, y int, v float64) {
	f.Pix[y*f.Size+x] = v
}

// Rows returns a copy of the samples as a 2D slice indexed [y][x].
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.Size)
	for y := range rows {
		rows[y] = make([]float64, f.Size)
		copy(rows[y], f.Pix[y*f.Size:(y+1)*f.Size])
	}
	return rows
}

// Clone creates a deep copy of the field.
func (f *Field) Clone() *Field {
	clone := NewField(f.Size)
	copy(clone.Pix, f.Pix)
	return clone
}

// Scale multiplies every sample by s in place and returns f.
func (f *Field) Scale(s float64) *Field {
	floats.Scale(s, f.Pix)
	return f
}

// Mul multiplies f element-wise by g in place and returns f.
// It panics if the shapes differ.
func (f *Field) Mul(g *Field) *Field {
	floats.Mul(f.Pix, g.Pix)
	return f
}

// Equal reports whether both fields hold exactly the same samples.
func (f *Field) Equal(g *Field) bool {
	return f.SameShape(g) && floats.Equal(f.Pix, g.Pix)
}

// MinMax returns the smallest and largest sample.
func (f *Field) MinMax() (lo, hi float64) {
	return floats.Min(f.Pix), floats.Max(f.Pix)
}

// Stats returns the mean and standard deviation of the samples.
func (f *Field) Stats() (mean, std float64) {
	return stat.MeanStdDev(f.Pix, nil)
}

// RMS returns the root mean square of the samples.
func (f *Field) RMS() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	return floats.Norm(f.Pix, 2) / math.Sqrt(float64(len(f.Pix)))
}

// NormalizeRMS scales f in place to unit RMS and returns f. An all-zero
// field is left unchanged.
func (f *Field) NormalizeRMS() *Field {
	if rms := f.RMS(); rms > 0 && !math.IsInf(rms, 0) {
		f.Scale(1 / rms)
	}
	return f
}

// Rescale returns a copy linearly mapped so that the minimum sample becomes
// lo and the maximum becomes hi. A constant field maps to lo.
func (f *Field) Rescale(lo, hi float64) *Field {
	out := f.Clone()
	fmin, fmax := f.MinMax()
	span := fmax - fmin
	if span == 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		for i := range out.Pix {
			out.Pix[i] = lo
		}
		return out
	}
	floats.AddConst(-fmin, out.Pix)
	floats.Scale((hi-lo)/span, out.Pix)
	floats.AddConst(lo, out.Pix)
	return out
}

// Paste copies src into f so that src is centred at column cx, row cy.
// Samples falling outside f are dropped.
func (f *Field) Paste(src *Field, cx, cy int) {
	x0 := cx - src.Size/2
	y0 := cy - src.Size/2
	for sy := 0; sy < src.Size; sy++ {
		dy := y0 + sy
		if dy < 0 || dy >= f.Size {
			continue
		}
		for sx := 0; sx < src.Size; sx++ {
			dx := x0 + sx
			if dx < 0 || dx >= f.Size {
				continue
			}
			f.Pix[dy*f.Size+dx] = src.Pix[sy*src.Size+sx]
		}
	}
}

// Pad returns a field of side size filled with fill and src centred in it.
func Pad(src *Field, size int, fill float64) *Field {
	dst := NewFieldFilled(size, fill)
	dst.Paste(src, size/2, size/2)
	return dst
}
