package letterstim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distortlab/letterstim/imageutil"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// borderRing returns the samples on the outermost ring of f.
func borderRing(f *imageutil.Field) []float64 {
	n := f.Size
	var ring []float64
	for k := 0; k < n; k++ {
		ring = append(ring, f.At(k, 0), f.At(k, n-1), f.At(0, k), f.At(n-1, k))
	}
	return ring
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" RF ")
	require.NoError(t, err)
	assert.Equal(t, KindRF, k)

	k, err = ParseKind("bex")
	require.NoError(t, err)
	assert.Equal(t, KindBex, k)

	_, err = ParseKind("swirl")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"bex ok", Params{KindBex, 2, 8}, nil},
		{"bex zero scale", Params{KindBex, 0, 8}, nil},
		{"bex zero peak", Params{KindBex, 1, 0}, ErrInvalidFrequency},
		{"rf ok", Params{KindRF, 0.1, 3}, nil},
		{"rf fractional", Params{KindRF, 0.1, 2.5}, ErrInvalidFrequency},
		{"rf zero frequency", Params{KindRF, 0.1, 0}, ErrInvalidFrequency},
		{"negative amplitude", Params{KindRF, -0.1, 3}, ErrInvalidAmplitude},
		{"nan amplitude", Params{KindBex, math.NaN(), 3}, ErrInvalidAmplitude},
		{"unknown kind", Params{"swirl", 1, 1}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRFZeroAmplitudeIsIdentity(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)

	dx, dy, err := RFOffsets(64, 0, 4, 1.3)
	require.NoError(t, err)
	for i := range dx.Pix {
		require.Zero(t, dx.Pix[i])
		require.Zero(t, dy.Pix[i])
	}

	got, err := RFDistort(img, 0, 4, newRand(1))
	require.NoError(t, err)
	assert.True(t, got.Equal(img), "zero amplitude must reproduce the input")
}

func TestBexZeroScaleIsIdentity(t *testing.T) {
	img := imageutil.CreateCheckerboardField(64, 8)
	got, err := BexDistort(img, 0, 8, newRand(2))
	require.NoError(t, err)
	assert.True(t, got.Equal(img), "zero scale must reproduce the input")
}

func TestRFDeterministicGivenPhase(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)

	a, err := RFDistortWithPhase(img, 0.2, 5, 0.7)
	require.NoError(t, err)
	b, err := RFDistortWithPhase(img, 0.2, 5, 0.7)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := RFDistortWithPhase(img, 0.2, 5, 2.1)
	require.NoError(t, err)
	assert.False(t, a.Equal(c), "a different phase should rotate the modulation")
}

func TestRFSeededStreamsRepeat(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)

	a, err := RFDistort(img, 0.1, 3, newRand(42))
	require.NoError(t, err)
	b, err := RFDistort(img, 0.1, 3, newRand(42))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestBexDeterministicGivenNoise(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)
	kernel, err := imageutil.LogExpFilter(64, 8, BexBandwidth)
	require.NoError(t, err)
	rng := newRand(7)
	nx := imageutil.FilteredNoise(kernel, rng)
	ny := imageutil.FilteredNoise(kernel, rng)

	a, err := BexDistortWithNoise(img, 3, nx, ny)
	require.NoError(t, err)
	b, err := BexDistortWithNoise(img, 3, nx, ny)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(img), "non-zero scale should move the disk edge")

	// Same seed through the public entry point gives the same draws.
	c, err := BexDistort(img, 3, 8, newRand(7))
	require.NoError(t, err)
	assert.True(t, a.Equal(c))
}

// gradientRMS is the RMS difference between horizontal neighbours.
func gradientRMS(f *imageutil.Field) float64 {
	var sum float64
	for y := 0; y < f.Size; y++ {
		for x := 1; x < f.Size; x++ {
			d := f.At(x, y) - f.At(x-1, y)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(f.Size*(f.Size-1)))
}

func TestBexOffsetsScaleInPixels(t *testing.T) {
	const size = 92

	dx2, dy2, err := BexOffsets(size, 2, 8, newRand(1))
	require.NoError(t, err)
	dx4, dy4, err := BexOffsets(size, 4, 8, newRand(1))
	require.NoError(t, err)
	assert.InDelta(t, 2, dx4.RMS()/dx2.RMS(), 1e-9, "offsets grow linearly with scale")
	assert.InDelta(t, 2, dy4.RMS()/dy2.RMS(), 1e-9, "offsets grow linearly with scale")

	const scale = 5.0
	smoothness := make(map[float64]float64)
	for _, peak := range []float64{2, 8, 32} {
		dx, dy, err := BexOffsets(size, scale, peak, newRand(1))
		require.NoError(t, err)
		for _, d := range []*imageutil.Field{dx, dy} {
			// The window only attenuates, and its interior covers most of
			// the tile, so the RMS stays within a fraction of scale.
			rms := d.RMS()
			assert.LessOrEqual(t, rms, scale, "peak %v", peak)
			assert.Greater(t, rms, 0.4*scale, "peak %v: offsets should be about scale pixels", peak)
		}
		smoothness[peak] = gradientRMS(dx) / dx.RMS()
	}
	assert.Less(t, smoothness[2], smoothness[8], "lower peaks give smoother offsets")
	assert.Less(t, smoothness[8], smoothness[32], "lower peaks give smoother offsets")
}

func TestBexOffsetsMatchDistort(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)
	dx, dy, err := BexOffsets(64, 3, 6, newRand(11))
	require.NoError(t, err)
	want, err := imageutil.Remap(img, dx, dy, imageutil.DefaultRemapOptions())
	require.NoError(t, err)

	got, err := BexDistort(img, 3, 6, newRand(11))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	_, _, err = BexOffsets(64, 1, 0, newRand(1))
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestBexNoiseShapeMismatch(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)
	_, err := BexDistortWithNoise(img, 1, imageutil.NewField(64), imageutil.NewField(32))
	assert.ErrorIs(t, err, imageutil.ErrShapeMismatch)
}

func TestRFOffsetsGeometry(t *testing.T) {
	const size = 65 // odd, so the centre falls on a pixel
	dx, dy, err := RFOffsets(size, 0.2, 1, 0)
	require.NoError(t, err)

	// Pixel (32, 48) sits at grid coordinate (0, 10), theta = pi/2, where
	// sin(theta) = 1, so it moves 0.2*10 straight down.
	assert.InDelta(t, 0, dx.At(32, 48), 1e-9)
	assert.InDelta(t, 2, dy.At(32, 48), 1e-9)

	// On the positive x axis sin(0) = 0.
	assert.InDelta(t, 0, dx.At(48, 32), 1e-9)
	assert.InDelta(t, 0, dy.At(48, 32), 1e-9)

	// The centre has zero radius.
	assert.Zero(t, dx.At(32, 32))
	assert.Zero(t, dy.At(32, 32))

	for _, v := range borderRing(dx) {
		require.Zero(t, v)
	}
	for _, v := range borderRing(dy) {
		require.Zero(t, v)
	}
}

func TestRFEndToEnd(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)

	got, err := RFDistort(img, 0.1, 3, newRand(3))
	require.NoError(t, err)
	require.Equal(t, 64, got.Size)

	assert.Greater(t, imageutil.CalculateMaxDiff(got, img), 0.1, "distortion should be visible")
	for _, v := range borderRing(got) {
		require.Equal(t, 1.0, v, "border ring must equal the fill value")
	}
}

func TestDistortDispatch(t *testing.T) {
	img := imageutil.CreateDiskField(64, 16)

	_, err := Distort(img, Params{Kind: KindBex, Amplitude: 1, Frequency: 4}, newRand(1))
	assert.NoError(t, err)
	_, err = Distort(img, Params{Kind: KindRF, Amplitude: 0.1, Frequency: 3}, newRand(1))
	assert.NoError(t, err)
	_, err = Distort(img, Params{Kind: "swirl"}, newRand(1))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDistortRejectsBadImages(t *testing.T) {
	bad := &imageutil.Field{Size: 4, Pix: make([]float64, 12)}
	_, err := RFDistort(bad, 0.1, 3, newRand(1))
	assert.ErrorIs(t, err, imageutil.ErrNotSquare)
	_, err = BexDistort(bad, 1, 4, newRand(1))
	assert.ErrorIs(t, err, imageutil.ErrNotSquare)

	_, err = RFDistort(nil, 0.1, 3, newRand(1))
	assert.ErrorIs(t, err, imageutil.ErrEmptyImage)

	// Too small for the edge window.
	_, err = RFDistort(imageutil.NewFieldFilled(20, 1), 0.1, 3, newRand(1))
	assert.ErrorIs(t, err, imageutil.ErrInvalidRamp)
}
