package letterstim

import (
	"math"
	"strconv"
	"strings"
)

// StimulusName holds the fields encoded in a stimulus file name.
type StimulusName struct {
	Flanked bool
	// Distortion is the kind, or "<kind>_undistorted" for the paired
	// reference image.
	Distortion string
	Frequency  float64
	Amplitude  float64
	Rep        int
	Position   Slot
	Letter     rune
	// Spacing is the flanker spacing in degrees; used only when Flanked.
	Spacing float64
}

// UndistortedName is the distortion label of the reference image for k.
func UndistortedName(k Kind) string {
	return string(k) + "_undistorted"
}

// String formats the name as
//
//	{unflanked|flanked}_{dist}_freq_{f}_amplitude_{a}_rep_{r}_{pos}_{letter}[_{spacing}].png
func (n StimulusName) String() string {
	var b strings.Builder
	if n.Flanked {
		b.WriteString("flanked_")
	} else {
		b.WriteString("unflanked_")
	}
	b.WriteString(n.Distortion)
	b.WriteString("_freq_")
	b.WriteString(formatNumber(n.Frequency))
	b.WriteString("_amplitude_")
	b.WriteString(formatNumber(n.Amplitude))
	b.WriteString("_rep_")
	b.WriteString(strconv.Itoa(n.Rep))
	b.WriteByte('_')
	b.WriteString(n.Position.Code())
	b.WriteByte('_')
	b.WriteRune(n.Letter)
	if n.Flanked {
		b.WriteByte('_')
		b.WriteString(formatSpacing(n.Spacing))
	}
	b.WriteString(".png")
	return b.String()
}

// formatNumber writes the shortest decimal that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatSpacing always carries a fractional part, e.g. "2.0".
func formatSpacing(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return formatNumber(v)
}
