package transform

import (
	"fmt"
	"math"

	"github.com/stepan-anokhin/audio-processor/dsp/interp"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
	"github.com/stepan-anokhin/audio-processor/dsp/stft"
)

// SpeedPerturbation changes playback speed without changing pitch by
// resampling the sequence of STFT frames in time. A factor of 2 halves
// the duration, 0.5 doubles it.
type SpeedPerturbation struct {
	factor float64
	window float64
}

// NewSpeedPerturbation returns a speed changer. factor must be positive,
// windowSeconds is the STFT window length.
func NewSpeedPerturbation(factor, windowSeconds float64) (*SpeedPerturbation, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, &SpectralConfigError{Transform: "speed perturbation", Reason: fmt.Sprintf("speed factor must be finite and > 0, got %v", factor)}
	}

	if err := validWindowDuration("speed perturbation", windowSeconds); err != nil {
		return nil, err
	}

	return &SpeedPerturbation{factor: factor, window: windowSeconds}, nil
}

// Factor returns the speed factor.
func (sp *SpeedPerturbation) Factor() float64 { return sp.factor }

// WindowDuration returns the STFT window length in seconds.
func (sp *SpeedPerturbation) WindowDuration() float64 { return sp.window }

// Apply resamples every channel to roughly Samples()/factor samples.
func (sp *SpeedPerturbation) Apply(s signal.Signal) (signal.Signal, error) {
	tr, err := newAnalysis("speed perturbation", sp.window, s.Rate)
	if err != nil {
		return signal.Signal{}, err
	}

	if s.Samples() == 0 {
		return s.Clone(), nil
	}

	return mapChannels(s, func(_ int, x []float64) ([]float64, error) {
		spec, err := tr.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("speed perturbation: %w", err)
		}

		y, err := tr.Inverse(sp.stretch(spec, tr.Bins()))
		if err != nil {
			return nil, fmt.Errorf("speed perturbation: %w", err)
		}

		return y, nil
	})
}

// stretch resamples the frame sequence to max(floor(T/factor), 1) frames.
// Output frame t interpolates the input at frame position T/T' * t; past
// the last input frame it is silent.
func (sp *SpeedPerturbation) stretch(spec *stft.Spectrogram, bins int) *stft.Spectrogram {
	n := spec.NumFrames()
	m := max(int(math.Floor(float64(n)/sp.factor)), 1)
	step := float64(n) / float64(m)

	out := &stft.Spectrogram{Frames: make([][]complex128, m), Offset: spec.Offset}

	for t := range out.Frames {
		frame := make([]complex128, bins)
		pos := step * float64(t)

		switch i := int(math.Floor(pos)); {
		case pos > float64(n-1):
		case i >= n-1:
			copy(frame, spec.Frames[n-1])
		default:
			interp.LerpInto(frame, spec.Frames[i], spec.Frames[i+1], pos-float64(i))
		}

		out.Frames[t] = frame
	}

	return out
}

// Uniform is false: block boundaries cut STFT frames.
func (sp *SpeedPerturbation) Uniform() bool { return false }
