package signal

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Generator creates deterministic probe signals at a fixed rate.
type Generator struct {
	rate     int
	channels int
	seed     uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithChannels sets the number of identical channels generated.
func WithChannels(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.channels = n
		}
	}
}

// NewGenerator creates a generator for the given sampling rate.
func NewGenerator(rate int, opts ...Option) *Generator {
	g := &Generator{rate: rate, channels: 1, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Rate returns the sampling rate of generated signals.
func (g *Generator) Rate() int { return g.rate }

// Tones returns the sum of unit-amplitude sines at the given frequencies.
// A single frequency gives a plain sine.
func (g *Generator) Tones(samples int, freqsHz ...float64) (Signal, error) {
	if samples < 0 {
		return Signal{}, fmt.Errorf("tone samples must be >= 0: %d", samples)
	}
	if g.rate <= 0 {
		return Signal{}, fmt.Errorf("tone sample rate must be > 0: %d", g.rate)
	}

	ch := make([]float32, samples)
	for _, f := range freqsHz {
		step := 2 * math.Pi * f / float64(g.rate)
		for i := range ch {
			ch[i] += float32(math.Sin(step * float64(i)))
		}
	}

	return g.replicate(ch), nil
}

// Sine generates a sine wave of the given amplitude.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) (Signal, error) {
	s, err := g.Tones(samples, freqHz)
	if err != nil {
		return Signal{}, err
	}

	for _, ch := range s.Data {
		for i := range ch {
			ch[i] *= float32(amplitude)
		}
	}

	return s, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) (Signal, error) {
	if samples < 0 {
		return Signal{}, fmt.Errorf("noise samples must be >= 0: %d", samples)
	}
	if amplitude < 0 {
		return Signal{}, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	data := make([][]float32, g.channels)

	for c := range data {
		data[c] = make([]float32, samples)
		for i := range data[c] {
			data[c][i] = float32((rng.Float64()*2 - 1) * amplitude)
		}
	}

	return Signal{Data: data, Rate: g.rate}, nil
}

func (g *Generator) replicate(ch []float32) Signal {
	data := make([][]float32, g.channels)
	data[0] = ch
	for c := 1; c < g.channels; c++ {
		data[c] = append([]float32(nil), ch...)
	}
	return Signal{Data: data, Rate: g.rate}
}

// Normalize scales s to the target peak amplitude and returns a new signal.
// Silent input stays silent.
func Normalize(s Signal, targetPeak float64) (Signal, error) {
	if targetPeak < 0 {
		return Signal{}, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	out := s.Clone()

	peak := float64(s.Peak())
	if peak == 0 {
		return out, nil
	}

	scale := float32(targetPeak / peak)
	for _, ch := range out.Data {
		for i := range ch {
			ch[i] *= scale
		}
	}

	return out, nil
}
