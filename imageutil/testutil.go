package imageutil

import "math"

// CreateGradientField creates a horizontal gradient from 0 to 1.
func CreateGradientField(size int) *Field {
	f := NewField(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			f.Set(x, y, float64(x)/float64(size-1))
		}
	}
	return f
}

// CreateCheckerboardField creates a 0/1 checkerboard pattern.
func CreateCheckerboardField(size, squareSize int) *Field {
	f := NewField(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				f.Set(x, y, 1)
			}
		}
	}
	return f
}

// CreateDiskField creates a white (1) field with a black (0) disk of the
// given radius at its centre.
func CreateDiskField(size int, radius float64) *Field {
	f := NewFieldFilled(size, 1)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if math.Hypot(float64(x)-c, float64(y)-c) <= radius {
				f.Set(x, y, 0)
			}
		}
	}
	return f
}

// CalculateMSE calculates the mean squared error between two fields.
func CalculateMSE(a, b *Field) float64 {
	if !a.SameShape(b) {
		return math.MaxFloat64
	}
	var sumSq float64
	for i := range a.Pix {
		d := a.Pix[i] - b.Pix[i]
		sumSq += d * d
	}
	return sumSq / float64(len(a.Pix))
}

// CalculateMaxDiff calculates the largest absolute sample difference.
func CalculateMaxDiff(a, b *Field) float64 {
	if !a.SameShape(b) {
		return math.Inf(1)
	}
	var maxDiff float64
	for i := range a.Pix {
		maxDiff = math.Max(maxDiff, math.Abs(a.Pix[i]-b.Pix[i]))
	}
	return maxDiff
}
