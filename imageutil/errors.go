package imageutil

import "errors"

var (
	// ErrEmptyImage indicates a field with no samples.
	ErrEmptyImage = errors.New("imageutil: image must have at least one sample")
	// ErrNotSquare indicates a sample grid whose rows and columns differ.
	ErrNotSquare = errors.New("imageutil: image must be square")
	// ErrShapeMismatch indicates fields that must share a shape but do not.
	ErrShapeMismatch = errors.New("imageutil: fields must have the same shape")
	// ErrInvalidFrequency indicates a non-positive or non-finite peak frequency.
	ErrInvalidFrequency = errors.New("imageutil: peak frequency must be positive and finite")
	// ErrInvalidBandwidth indicates a non-positive or non-finite bandwidth.
	ErrInvalidBandwidth = errors.New("imageutil: bandwidth must be positive and finite")
	// ErrInvalidRamp indicates a window ramp that does not fit the image.
	ErrInvalidRamp = errors.New("imageutil: ramp width must be at least 1 and at most half the image size")
)
