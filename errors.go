package letterstim

import "errors"

var (
	// ErrUnknownKind indicates a distortion kind other than bex or rf.
	ErrUnknownKind = errors.New("letterstim: unknown distortion kind")
	// ErrInvalidAmplitude indicates a negative or non-finite amplitude or scale.
	ErrInvalidAmplitude = errors.New("letterstim: amplitude must be finite and non-negative")
	// ErrInvalidFrequency indicates an unusable peak or radial frequency.
	ErrInvalidFrequency = errors.New("letterstim: invalid distortion frequency")
	// ErrUnknownGlyph indicates a letter the glyph source cannot provide.
	ErrUnknownGlyph = errors.New("letterstim: no glyph for letter")
	// ErrInvalidConfig indicates a configuration that fails validation.
	ErrInvalidConfig = errors.New("letterstim: invalid configuration")
)
