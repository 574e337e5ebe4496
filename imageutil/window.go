package imageutil

import (
	"fmt"
	"math"
	"sync"
)

type windowKey struct {
	size, ramp int
}

var (
	windowMu    sync.RWMutex
	windowCache = make(map[windowKey]*Field)
)

// CosWindow returns a separable raised-cosine edge window. Samples at least
// ramp pixels from every edge are 1; within ramp pixels of an edge the window
// falls as 0.5*(1-cos(pi*d/ramp)), reaching 0 on the outermost ring.
//
// Windows are memoised per (size, ramp). The returned field is shared and
// must not be modified.
func CosWindow(size, ramp int) (*Field, error) {
	if size <= 0 {
		return nil, ErrEmptyImage
	}
	if ramp < 1 || 2*ramp > size {
		return nil, fmt.Errorf("ramp %d for size %d: %w", ramp, size, ErrInvalidRamp)
	}

	key := windowKey{size, ramp}
	windowMu.RLock()
	w, ok := windowCache[key]
	windowMu.RUnlock()
	if ok {
		return w, nil
	}

	w = buildCosWindow(size, ramp)
	windowMu.Lock()
	windowCache[key] = w
	windowMu.Unlock()
	return w, nil
}

func buildCosWindow(size, ramp int) *Field {
	profile := make([]float64, size)
	for k := range profile {
		d := min(k, size-1-k)
		if d >= ramp {
			profile[k] = 1
			continue
		}
		profile[k] = 0.5 * (1 - math.Cos(math.Pi*float64(d)/float64(ramp)))
	}

	w := NewField(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			w.Pix[y*size+x] = profile[y] * profile[x]
		}
	}
	return w
}
