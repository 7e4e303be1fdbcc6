package transform

import (
	"fmt"
	"math"

	"github.com/stepan-anokhin/audio-processor/dsp/stft"
	"github.com/stepan-anokhin/audio-processor/dsp/window"
)

// DefaultWindowDuration is the STFT window length, in seconds, used by the
// spectral transforms unless configured otherwise.
const DefaultWindowDuration = 0.1

func validWindowDuration(name string, seconds float64) error {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return &SpectralConfigError{Transform: name, Reason: fmt.Sprintf("window duration must be finite and > 0, got %v s", seconds)}
	}
	return nil
}

// newAnalysis builds the short-time transform shared by the spectral
// transforms: a symmetric Gaussian window of int(seconds*rate) samples
// with standard deviation of half its length, and a half-window hop.
func newAnalysis(name string, seconds float64, rate int) (*stft.Transform, error) {
	m := int(seconds * float64(rate))
	if m < 2 {
		return nil, &SpectralConfigError{
			Transform: name,
			Reason:    fmt.Sprintf("window of %v s is %d sample(s) at %d Hz, need at least 2", seconds, m, rate),
		}
	}

	win, err := window.Gaussian(m, float64(m/2))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	tr, err := stft.New(win, m/2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return tr, nil
}

// fitLength truncates or zero-pads x to n samples.
func fitLength(x []float64, n int) []float64 {
	if len(x) >= n {
		return x[:n]
	}
	out := make([]float64, n)
	copy(out, x)
	return out
}
