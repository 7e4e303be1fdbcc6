package transform

import (
	"fmt"
	"math"

	"github.com/stepan-anokhin/audio-processor/dsp/interp"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// PitchShift moves every spectral component by a fixed number of octaves
// while keeping the duration. Each output bin at frequency f takes the
// interpolated input spectrum at f * 2^-shift.
type PitchShift struct {
	shift  float64
	window float64
}

// NewPitchShift returns a pitch shifter. shift is in octaves (+1 doubles
// every frequency), windowSeconds is the STFT window length.
func NewPitchShift(shift, windowSeconds float64) (*PitchShift, error) {
	if math.IsNaN(shift) || math.IsInf(shift, 0) {
		return nil, &SpectralConfigError{Transform: "pitch shift", Reason: fmt.Sprintf("shift must be finite, got %v", shift)}
	}

	if err := validWindowDuration("pitch shift", windowSeconds); err != nil {
		return nil, err
	}

	return &PitchShift{shift: shift, window: windowSeconds}, nil
}

// Shift returns the shift in octaves.
func (p *PitchShift) Shift() float64 { return p.shift }

// WindowDuration returns the STFT window length in seconds.
func (p *PitchShift) WindowDuration() float64 { return p.window }

// Apply shifts the pitch of every channel. The output has exactly as many
// samples as the input.
func (p *PitchShift) Apply(s signal.Signal) (signal.Signal, error) {
	tr, err := newAnalysis("pitch shift", p.window, s.Rate)
	if err != nil {
		return signal.Signal{}, err
	}

	if s.Samples() == 0 {
		return s.Clone(), nil
	}

	factor := math.Exp2(-p.shift)

	return mapChannels(s, func(_ int, x []float64) ([]float64, error) {
		spec, err := tr.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("pitch shift: %w", err)
		}

		// Bins are evenly spaced, so sampling at f*factor is sampling at
		// bin index k*factor.
		shifted := make([]complex128, tr.Bins())
		for _, frame := range spec.Frames {
			for k := range shifted {
				shifted[k] = interp.UniformComplex(frame, float64(k)*factor)
			}
			copy(frame, shifted)
		}

		y, err := tr.Inverse(spec)
		if err != nil {
			return nil, fmt.Errorf("pitch shift: %w", err)
		}

		return fitLength(y, len(x)), nil
	})
}

// Uniform is false: block boundaries cut STFT frames.
func (p *PitchShift) Uniform() bool { return false }
