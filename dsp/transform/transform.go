package transform

import "github.com/stepan-anokhin/audio-processor/dsp/signal"

// Transform is a signal-to-signal augmentation.
type Transform interface {
	// Apply returns the transformed signal. The input is left untouched.
	Apply(s signal.Signal) (signal.Signal, error)

	// Uniform reports whether the transform can be applied independently
	// to consecutive blocks of a long signal.
	Uniform() bool
}

// mapChannels runs fn over every channel in float64 and assembles the
// results into a new signal at the same rate.
func mapChannels(s signal.Signal, fn func(c int, x []float64) ([]float64, error)) (signal.Signal, error) {
	out := make([][]float64, s.Channels())

	for c := range s.Data {
		y, err := fn(c, s.Channel(c))
		if err != nil {
			return signal.Signal{}, err
		}
		out[c] = y
	}

	return signal.FromFloat64(out, s.Rate), nil
}
