package transform

import (
	"fmt"
	"math"
	"sync"

	"github.com/stepan-anokhin/audio-processor/dsp/filter/biquad"
	"github.com/stepan-anokhin/audio-processor/dsp/filter/design"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// DefaultRollOff is the attenuation slope, in dB per octave, of a
// first-order filter.
const DefaultRollOff = 6

// bandEdgeLimit is the fraction of Nyquist that upper cutoffs are clamped
// to before design.
const bandEdgeLimit = 0.999

// sosFilter runs a Butterworth cascade over every channel. Coefficients
// depend on the sampling rate and are designed on first use per rate.
type sosFilter struct {
	kind  design.Kind
	order int
	memo  sync.Map // int rate -> []biquad.Coefficients
}

// filterOrder converts a roll-off in dB per octave to a Butterworth order.
func filterOrder(kind design.Kind, rollOff int) (int, error) {
	order := rollOff / 6
	if order < 1 {
		return 0, &FilterConfigError{
			Filter: kind.String(),
			Reason: fmt.Sprintf("roll-off %d dB/octave gives filter order 0", rollOff),
		}
	}
	return order, nil
}

func (f *sosFilter) coefficients(rate int, cutoffs ...float64) ([]biquad.Coefficients, error) {
	if c, ok := f.memo.Load(rate); ok {
		return c.([]biquad.Coefficients), nil
	}

	coeffs, err := design.Butterworth(f.kind, f.order, float64(rate), cutoffs...)
	if err != nil {
		return nil, &FilterConfigError{Filter: f.kind.String(), Reason: fmt.Sprintf("design failed at %d Hz", rate), Err: err}
	}

	f.memo.Store(rate, coeffs)

	return coeffs, nil
}

// run filters every channel with a fresh cascade primed on the channel's
// first sample, so a signal starting at a non-zero level has no start-up
// transient.
func (f *sosFilter) run(s signal.Signal, coeffs []biquad.Coefficients) (signal.Signal, error) {
	return mapChannels(s, func(_ int, x []float64) ([]float64, error) {
		if len(x) == 0 {
			return x, nil
		}

		chain := biquad.NewChain(coeffs)
		chain.Prime(x[0])
		chain.ProcessBlock(x)

		return x, nil
	})
}

func validCutoff(name string, hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return &FilterConfigError{Filter: name, Reason: fmt.Sprintf("cutoff must be finite and > 0, got %v Hz", hz)}
	}
	return nil
}

// OneSideFilter is a Butterworth lowpass or highpass filter.
type OneSideFilter struct {
	sosFilter

	cutoff  float64
	rollOff int
}

// NewLowPass returns a lowpass filter with -3 dB at cutoffHz and the given
// roll-off in dB per octave (a multiple of 6). A cutoff at or above the
// Nyquist frequency of the signal makes Apply an identity.
func NewLowPass(cutoffHz float64, rollOff int) (*OneSideFilter, error) {
	return newOneSide(design.Lowpass, cutoffHz, rollOff)
}

// NewHighPass returns a highpass filter with -3 dB at cutoffHz. A cutoff
// at or above the Nyquist frequency is designed just below it, which
// removes essentially the whole signal.
func NewHighPass(cutoffHz float64, rollOff int) (*OneSideFilter, error) {
	return newOneSide(design.Highpass, cutoffHz, rollOff)
}

func newOneSide(kind design.Kind, cutoffHz float64, rollOff int) (*OneSideFilter, error) {
	if err := validCutoff(kind.String(), cutoffHz); err != nil {
		return nil, err
	}

	order, err := filterOrder(kind, rollOff)
	if err != nil {
		return nil, err
	}

	return &OneSideFilter{
		sosFilter: sosFilter{kind: kind, order: order},
		cutoff:    cutoffHz,
		rollOff:   rollOff,
	}, nil
}

// Kind returns design.Lowpass or design.Highpass.
func (f *OneSideFilter) Kind() design.Kind { return f.kind }

// Cutoff returns the -3 dB frequency in Hz.
func (f *OneSideFilter) Cutoff() float64 { return f.cutoff }

// RollOff returns the attenuation slope in dB per octave.
func (f *OneSideFilter) RollOff() int { return f.rollOff }

// Apply filters every channel of s.
func (f *OneSideFilter) Apply(s signal.Signal) (signal.Signal, error) {
	nyquist := float64(s.Rate / 2)

	if f.kind == design.Lowpass && f.cutoff >= nyquist {
		return s, nil
	}

	if f.cutoff >= float64(s.Rate) {
		return signal.Signal{}, &FilterConfigError{
			Filter: f.kind.String(),
			Reason: fmt.Sprintf("cutoff %v Hz >= sampling rate %d Hz", f.cutoff, s.Rate),
		}
	}

	cutoff := min(f.cutoff, bandEdgeLimit*nyquist)

	coeffs, err := f.coefficients(s.Rate, cutoff)
	if err != nil {
		return signal.Signal{}, err
	}

	return f.run(s, coeffs)
}

// Uniform is always true.
func (f *OneSideFilter) Uniform() bool { return true }

// TwoSideFilter is a Butterworth bandpass or bandstop filter.
type TwoSideFilter struct {
	sosFilter

	low, high float64
	rollOff   int
}

// NewBandPass returns a filter passing [lowHz, highHz] with -3 dB at both
// edges. The design has twice the order implied by rollOff.
func NewBandPass(lowHz, highHz float64, rollOff int) (*TwoSideFilter, error) {
	return newTwoSide(design.Bandpass, lowHz, highHz, rollOff)
}

// NewBandStop returns a filter rejecting [lowHz, highHz].
func NewBandStop(lowHz, highHz float64, rollOff int) (*TwoSideFilter, error) {
	return newTwoSide(design.Bandstop, lowHz, highHz, rollOff)
}

func newTwoSide(kind design.Kind, lowHz, highHz float64, rollOff int) (*TwoSideFilter, error) {
	for _, hz := range []float64{lowHz, highHz} {
		if err := validCutoff(kind.String(), hz); err != nil {
			return nil, err
		}
	}

	if lowHz >= highHz {
		return nil, &FilterConfigError{
			Filter: kind.String(),
			Reason: fmt.Sprintf("low cutoff %v Hz must be below high cutoff %v Hz", lowHz, highHz),
		}
	}

	order, err := filterOrder(kind, rollOff)
	if err != nil {
		return nil, err
	}

	return &TwoSideFilter{
		sosFilter: sosFilter{kind: kind, order: order},
		low:       lowHz,
		high:      highHz,
		rollOff:   rollOff,
	}, nil
}

// Kind returns design.Bandpass or design.Bandstop.
func (f *TwoSideFilter) Kind() design.Kind { return f.kind }

// Band returns the lower and upper band edges in Hz.
func (f *TwoSideFilter) Band() (low, high float64) { return f.low, f.high }

// RollOff returns the attenuation slope in dB per octave.
func (f *TwoSideFilter) RollOff() int { return f.rollOff }

// Apply filters every channel of s. The upper edge is clamped just below
// the Nyquist frequency of s.
func (f *TwoSideFilter) Apply(s signal.Signal) (signal.Signal, error) {
	high := min(f.high, bandEdgeLimit*float64(s.Rate/2))

	if f.low >= high {
		return signal.Signal{}, &FilterConfigError{
			Filter: f.kind.String(),
			Reason: fmt.Sprintf("low cutoff %v Hz is not below the usable band edge %v Hz at %d Hz", f.low, high, s.Rate),
		}
	}

	coeffs, err := f.coefficients(s.Rate, f.low, high)
	if err != nil {
		return signal.Signal{}, err
	}

	return f.run(s, coeffs)
}

// Uniform is always true.
func (f *TwoSideFilter) Uniform() bool { return true }
