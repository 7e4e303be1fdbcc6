package transform

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// GaussianNoise adds zero-mean normal noise of a fixed standard deviation
// to every sample independently.
type GaussianNoise struct {
	amplitude float64
	seed      uint64
	calls     atomic.Uint64
}

// NoiseOption configures a GaussianNoise.
type NoiseOption func(*GaussianNoise)

// WithSeed makes the noise reproducible: the n-th Apply call on a
// transform seeded with s always draws the same samples.
func WithSeed(seed uint64) NoiseOption {
	return func(g *GaussianNoise) { g.seed = seed }
}

// NewGaussianNoise returns a transform adding amplitude * N(0, 1) noise.
// Without WithSeed the seed is drawn at random.
func NewGaussianNoise(amplitude float64, opts ...NoiseOption) (*GaussianNoise, error) {
	if !(amplitude >= 0) || math.IsInf(amplitude, 0) {
		return nil, fmt.Errorf("gaussian noise: %w: amplitude must be finite and >= 0: %v", ErrInvalidParam, amplitude)
	}

	g := &GaussianNoise{amplitude: amplitude, seed: rand.Uint64()}
	for _, o := range opts {
		o(g)
	}

	return g, nil
}

// Amplitude returns the noise standard deviation.
func (g *GaussianNoise) Amplitude() float64 { return g.amplitude }

// Apply returns s plus fresh noise.
func (g *GaussianNoise) Apply(s signal.Signal) (signal.Signal, error) {
	rng := rand.New(rand.NewPCG(g.seed, g.calls.Add(1)))
	noise := make([]float64, s.Samples())

	return mapChannels(s, func(_ int, x []float64) ([]float64, error) {
		fillNormal(rng, noise)
		vecmath.ScaleBlock(noise, noise, g.amplitude)
		vecmath.AddBlockInPlace(x, noise)
		return x, nil
	})
}

// Uniform is always true.
func (g *GaussianNoise) Uniform() bool { return true }

// fillNormal writes standard normal deviates using the Box-Muller
// transform.
func fillNormal(rng *rand.Rand, dst []float64) {
	for i := 0; i < len(dst); i += 2 {
		u1 := 1 - rng.Float64() // (0, 1]
		u2 := rng.Float64()

		r := mathSqrt(-2 * mathLog(u1))
		sin, cos := math.Sincos(2 * math.Pi * u2)

		dst[i] = r * cos
		if i+1 < len(dst) {
			dst[i+1] = r * sin
		}
	}
}
