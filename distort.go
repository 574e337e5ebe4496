package letterstim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/distortlab/letterstim/imageutil"
)

// Kind names a distortion model.
type Kind string

const (
	// KindBex warps with band-pass filtered noise (Bex, 2010).
	KindBex Kind = "bex"
	// KindRF warps with a radial-frequency modulation (Dickinson et al., 2010).
	KindRF Kind = "rf"
)

const (
	// BexBandwidth is the log-exponential filter spread in octaves.
	BexBandwidth = 0.5
	// WindowRamp is the width in pixels over which distortion fades out at
	// the image border.
	WindowRamp = 14
	// RFExtent is the half-range of the centred coordinate grid the RF
	// modulation is computed on.
	RFExtent = 20.0
)

// ParseKind converts a command-line name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBex, KindRF:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Rand is the random source consumed by distortion and trial layout.
// *rand.Rand from math/rand/v2 satisfies it. Implementations need not be
// safe for concurrent use; give every goroutine its own stream.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
	Perm(n int) []int
}

// Params describes one distortion. For KindBex, Amplitude is the
// displacement scale in pixels and Frequency the filter peak in cycles per
// image. For KindRF, Amplitude is the modulation depth as a fraction of
// radius and Frequency the whole number of lobes.
type Params struct {
	Kind      Kind
	Amplitude float64
	Frequency float64
}

// Validate checks the parameters without an image.
func (p Params) Validate() error {
	if math.IsNaN(p.Amplitude) || math.IsInf(p.Amplitude, 0) || p.Amplitude < 0 {
		return fmt.Errorf("amplitude %v: %w", p.Amplitude, ErrInvalidAmplitude)
	}
	switch p.Kind {
	case KindBex:
		if !(p.Frequency > 0) || math.IsInf(p.Frequency, 0) {
			return fmt.Errorf("bex peak frequency %v: %w", p.Frequency, ErrInvalidFrequency)
		}
	case KindRF:
		if p.Frequency < 1 || p.Frequency != math.Trunc(p.Frequency) || math.IsInf(p.Frequency, 0) {
			return fmt.Errorf("rf frequency %v must be a positive whole number: %w", p.Frequency, ErrInvalidFrequency)
		}
	default:
		return fmt.Errorf("%q: %w", p.Kind, ErrUnknownKind)
	}
	return nil
}

// Distort applies the distortion described by p to img.
func Distort(img *imageutil.Field, p Params, rng Rand) (*imageutil.Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.Kind {
	case KindBex:
		return BexDistort(img, p.Amplitude, p.Frequency, rng)
	default:
		return RFDistort(img, p.Amplitude, int(p.Frequency), rng)
	}
}

var remapOptions = imageutil.DefaultRemapOptions()

func checkImage(img *imageutil.Field) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("distort: %w", err)
	}
	return nil
}

// BexDistort warps img with two independent fields of log-exponential
// band-pass noise peaking at peak cycles per image, one per axis. Each
// field is normalised to unit RMS, tapered by the edge window and
// multiplied by scale, so scale is the RMS displacement in pixels away
// from the border. Lower peaks give smoother warps of the same size.
func BexDistort(img *imageutil.Field, scale, peak float64, rng Rand) (*imageutil.Field, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if err := (Params{Kind: KindBex, Amplitude: scale, Frequency: peak}).Validate(); err != nil {
		return nil, err
	}
	noiseX, noiseY, err := bexNoise(img.Size, peak, rng)
	if err != nil {
		return nil, err
	}
	return BexDistortWithNoise(img, scale, noiseX, noiseY)
}

// BexDistortWithNoise is BexDistort with the noise fields supplied by the
// caller. It is deterministic.
func BexDistortWithNoise(img *imageutil.Field, scale float64, noiseX, noiseY *imageutil.Field) (*imageutil.Field, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if !img.SameShape(noiseX) || !img.SameShape(noiseY) {
		return nil, fmt.Errorf("bex noise: %w", imageutil.ErrShapeMismatch)
	}
	dx, dy, err := bexOffsets(noiseX, noiseY, scale)
	if err != nil {
		return nil, err
	}

	if lg := Logger(); lg.Enabled(context.Background(), slog.LevelDebug) {
		lg.Debug("bex offsets", "size", img.Size, "scale", scale, "rms_x", dx.RMS(), "rms_y", dy.RMS())
	}
	return imageutil.Remap(img, dx, dy, remapOptions)
}

// BexOffsets draws the horizontal and vertical displacement fields
// BexDistort would apply to a size x size image.
func BexOffsets(size int, scale, peak float64, rng Rand) (dx, dy *imageutil.Field, err error) {
	if err := (Params{Kind: KindBex, Amplitude: scale, Frequency: peak}).Validate(); err != nil {
		return nil, nil, err
	}
	noiseX, noiseY, err := bexNoise(size, peak, rng)
	if err != nil {
		return nil, nil, err
	}
	return bexOffsets(noiseX, noiseY, scale)
}

// bexNoise draws the x field, then the y field, from one kernel.
func bexNoise(size int, peak float64, rng Rand) (noiseX, noiseY *imageutil.Field, err error) {
	kernel, err := imageutil.LogExpFilter(size, peak, BexBandwidth)
	if err != nil {
		return nil, nil, err
	}
	noiseX = imageutil.FilteredNoise(kernel, rng)
	noiseY = imageutil.FilteredNoise(kernel, rng)
	return noiseX, noiseY, nil
}

func bexOffsets(noiseX, noiseY *imageutil.Field, scale float64) (dx, dy *imageutil.Field, err error) {
	window, err := imageutil.CosWindow(noiseX.Size, WindowRamp)
	if err != nil {
		return nil, nil, err
	}
	dx = noiseX.Clone().NormalizeRMS().Mul(window).Scale(scale)
	dy = noiseY.Clone().NormalizeRMS().Mul(window).Scale(scale)
	return dx, dy, nil
}

// RFDistort warps img by modulating every pixel's distance from the centre
// with a sinusoid of frequency lobes around the circle, depth amplitude and
// a phase drawn once from rng.
func RFDistort(img *imageutil.Field, amplitude float64, frequency int, rng Rand) (*imageutil.Field, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if err := (Params{Kind: KindRF, Amplitude: amplitude, Frequency: float64(frequency)}).Validate(); err != nil {
		return nil, err
	}
	phase := rng.Float64() * 2 * math.Pi
	return RFDistortWithPhase(img, amplitude, frequency, phase)
}

// RFDistortWithPhase is RFDistort with a fixed phase. It is deterministic.
func RFDistortWithPhase(img *imageutil.Field, amplitude float64, frequency int, phase float64) (*imageutil.Field, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if err := (Params{Kind: KindRF, Amplitude: amplitude, Frequency: float64(frequency)}).Validate(); err != nil {
		return nil, err
	}
	dx, dy, err := RFOffsets(img.Size, amplitude, frequency, phase)
	if err != nil {
		return nil, err
	}
	return imageutil.Remap(img, dx, dy, remapOptions)
}

// RFOffsets computes the windowed Cartesian offset fields of the radial
// modulation r' = r*(1 + amplitude*sin(frequency*(theta+phase))) on a grid
// spanning [-RFExtent, RFExtent] on both axes.
func RFOffsets(size int, amplitude float64, frequency int, phase float64) (dx, dy *imageutil.Field, err error) {
	window, err := imageutil.CosWindow(size, WindowRamp)
	if err != nil {
		return nil, nil, err
	}

	coord := make([]float64, size)
	step := 2 * RFExtent / float64(size-1)
	for k := range coord {
		coord[k] = -RFExtent + float64(k)*step
	}

	dx = imageutil.NewField(size)
	dy = imageutil.NewField(size)
	freq := float64(frequency)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cx, cy := coord[x], coord[y]
			r := math.Hypot(cx, cy)
			theta := math.Atan2(cy, cx)
			dr := r * amplitude * math.Sin(freq*(theta+phase))

			i := y*size + x
			w := window.Pix[i]
			dx.Pix[i] = dr * math.Cos(theta) * w
			dy.Pix[i] = dr * math.Sin(theta) * w
		}
	}
	return dx, dy, nil
}
