package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/stepan-anokhin/audio-processor/dsp/filter/biquad"
)

// ErrInvalidParams is returned for orders, cutoffs or sample rates that do
// not describe a realizable filter.
var ErrInvalidParams = errors.New("design: invalid parameters")

// Kind selects the Butterworth response type.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Bandstop
)

func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Bandstop:
		return "bandstop"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Band reports whether the kind takes a lower and an upper cutoff.
func (k Kind) Band() bool {
	return k == Bandpass || k == Bandstop
}

// Butterworth designs a digital Butterworth filter of the given order and
// returns it as a cascade of second-order sections. The overall gain is
// folded into the first section.
//
// Lowpass and highpass take one cutoff in Hz; bandpass and bandstop take
// the lower and upper band edges. Every cutoff must lie strictly between 0
// and sampleRate/2.
func Butterworth(kind Kind, order int, sampleRate float64, cutoffs ...float64) ([]biquad.Coefficients, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %s order %d < 1", ErrInvalidParams, kind, order)
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate %v", ErrInvalidParams, sampleRate)
	}

	want := 1
	if kind.Band() {
		want = 2
	}

	if len(cutoffs) != want {
		return nil, fmt.Errorf("%w: %s needs %d cutoff(s), got %d", ErrInvalidParams, kind, want, len(cutoffs))
	}

	nyquist := sampleRate / 2
	warped := make([]float64, len(cutoffs))

	for i, f := range cutoffs {
		if !(f > 0 && f < nyquist) {
			return nil, fmt.Errorf("%w: %s cutoff %v Hz outside (0, %v)", ErrInvalidParams, kind, f, nyquist)
		}

		warped[i] = prewarp(f / nyquist)
	}

	if kind.Band() && !(cutoffs[0] < cutoffs[1]) {
		return nil, fmt.Errorf("%w: %s band edges %v >= %v", ErrInvalidParams, kind, cutoffs[0], cutoffs[1])
	}

	proto := analogPrototype(order)

	var analog zpk

	switch kind {
	case Lowpass:
		analog = proto.lowpass(warped[0])
	case Highpass:
		analog = proto.highpass(warped[0])
	case Bandpass:
		analog = proto.bandpass(math.Sqrt(warped[0]*warped[1]), warped[1]-warped[0])
	case Bandstop:
		analog = proto.bandstop(math.Sqrt(warped[0]*warped[1]), warped[1]-warped[0])
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidParams, kind)
	}

	return analog.bilinear().sections(), nil
}

// prewarp maps a cutoff normalized to Nyquist onto the analog frequency
// that the bilinear transform (fs = 2) sends back to it.
func prewarp(wn float64) float64 {
	return 4 * math.Tan(math.Pi*wn/2)
}
