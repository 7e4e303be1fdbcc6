package testutil

import (
	"math"
	"math/rand"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Sinusoid returns a mono signal of the given duration holding the sum of
// unit sines at freqs.
func Sinusoid(rate int, seconds float64, freqs ...float64) signal.Signal {
	n := int(seconds * float64(rate))
	ch := make([]float32, n)
	for _, f := range freqs {
		for i, v := range DeterministicSine(f, float64(rate), 1, n) {
			ch[i] += float32(v)
		}
	}
	return signal.Signal{Data: [][]float32{ch}, Rate: rate}
}

// Noise returns a signal of seeded uniform noise, one independent stream
// per channel.
func Noise(seed int64, rate, channels, samples int, amplitude float64) signal.Signal {
	data := make([][]float64, channels)
	for c := range data {
		data[c] = DeterministicNoise(seed+int64(c), amplitude, samples)
	}
	return signal.FromFloat64(data, rate)
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
