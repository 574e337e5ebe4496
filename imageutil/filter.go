package imageutil

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FilterKernel is a real-valued frequency-domain filter. Samples are laid out
// in unshifted FFT order: the DC term is at (0, 0) and negative frequencies
// occupy the upper half of each axis.
type FilterKernel struct {
	*Field
	PeakFrequency float64
	Bandwidth     float64
}

// NormalSource draws standard-normal variates. *rand.Rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// fftFrequency returns the signed frequency, in cycles per image, of FFT bin k
// for a transform of length n.
func fftFrequency(k, n int) float64 {
	if k < (n+1)/2 {
		return float64(k)
	}
	return float64(k - n)
}

// RadialFrequency returns, for each FFT bin of a size x size transform, its
// distance from DC in cycles per image.
func RadialFrequency(size int) *Field {
	r := NewField(size)
	for y := 0; y < size; y++ {
		fy := fftFrequency(y, size)
		for x := 0; x < size; x++ {
			r.Pix[y*size+x] = math.Hypot(fftFrequency(x, size), fy)
		}
	}
	return r
}

// LogExpFilter builds a radially symmetric log-exponential band-pass filter:
//
//	H(f) = exp(-log2(f/peak)^2 / (2*bandwidth^2))
//
// where f is radial frequency in cycles per image and bandwidth is the
// spread in octaves. H is 1 at the peak and 0 at DC.
func LogExpFilter(size int, peak, bandwidth float64) (*FilterKernel, error) {
	if size <= 0 {
		return nil, ErrEmptyImage
	}
	if !(peak > 0) || math.IsInf(peak, 0) {
		return nil, fmt.Errorf("peak %v: %w", peak, ErrInvalidFrequency)
	}
	if !(bandwidth > 0) || math.IsInf(bandwidth, 0) {
		return nil, fmt.Errorf("bandwidth %v: %w", bandwidth, ErrInvalidBandwidth)
	}

	k := RadialFrequency(size)
	twoVar := 2 * bandwidth * bandwidth
	for i, f := range k.Pix {
		if f == 0 {
			k.Pix[i] = 0
			continue
		}
		octaves := math.Log2(f / peak)
		k.Pix[i] = math.Exp(-octaves * octaves / twoVar)
	}

	return &FilterKernel{Field: k, PeakFrequency: peak, Bandwidth: bandwidth}, nil
}

// FilteredNoise draws a fresh standard-normal field the size of kernel,
// filters it in the frequency domain and returns the real part of the
// inverse transform. Every call consumes new variates from rng.
func FilteredNoise(kernel *FilterKernel, rng NormalSource) *Field {
	n := kernel.Size
	white := make([][]float64, n)
	for y := range white {
		white[y] = make([]float64, n)
		for x := range white[y] {
			white[y][x] = rng.NormFloat64()
		}
	}
	return ApplyFilter(white, kernel)
}

// ApplyFilter filters a spatial sample grid, indexed [y][x], with kernel.
func ApplyFilter(samples [][]float64, kernel *FilterKernel) *Field {
	n := kernel.Size
	spectrum := fft.FFT2Real(samples)
	for y := 0; y < n; y++ {
		row := spectrum[y]
		for x := 0; x < n; x++ {
			row[x] *= complex(kernel.Pix[y*n+x], 0)
		}
	}

	filtered := fft.IFFT2(spectrum)
	out := NewField(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out.Pix[y*n+x] = real(filtered[y][x])
		}
	}
	return out
}

// PowerSpectrum returns |FFT2(f)|^2 in unshifted FFT order.
func PowerSpectrum(f *Field) *Field {
	spectrum := fft.FFT2Real(f.Rows())
	p := NewField(f.Size)
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			c := spectrum[y][x]
			p.Pix[y*f.Size+x] = real(c)*real(c) + imag(c)*imag(c)
		}
	}
	return p
}
