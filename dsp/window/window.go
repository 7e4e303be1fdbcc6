package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeGauss
)

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeGauss:
		return "gauss"
	default:
		return "unknown"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	std      float64
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithStd sets the standard deviation, in samples, of the Gaussian window.
// Non-positive values are ignored.
func WithStd(std float64) Option {
	return func(c *config) {
		if std > 0 {
			c.std = std
		}
	}
}

// Generate returns window coefficients of the given length.
//
// The Gaussian window defaults to a standard deviation of length/2 samples
// (integer division), the setting used by the spectral transforms.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := config{std: float64(length / 2)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.std <= 0 {
		cfg.std = 1
	}

	center := float64(length-1) / 2
	span := float64(length - 1)

	if cfg.periodic {
		center = float64(length) / 2
		span = float64(length)
	}

	out := make([]float64, length)

	for i := range out {
		switch t {
		case TypeHann:
			if span == 0 {
				out[i] = 1
				continue
			}
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/span)
		case TypeGauss:
			d := (float64(i) - center) / cfg.std
			out[i] = math.Exp(-0.5 * d * d)
		default:
			out[i] = 1
		}
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Gaussian returns symmetric Gaussian window coefficients with the given
// standard deviation in samples:
//
//	w[n] = exp(-0.5 * ((n - (size-1)/2) / std)^2)
func Gaussian(size int, std float64, opts ...Option) ([]float64, error) {
	if err := validateGauss(size, std); err != nil {
		return nil, err
	}

	return Generate(TypeGauss, size, append(opts, WithStd(std))...), nil
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Sum returns the sum of the window coefficients (its DC gain).
func Sum(coeffs []float64) float64 {
	s := 0.0
	for _, w := range coeffs {
		s += w
	}
	return s
}

// SumSquares returns the sum of squared coefficients.
func SumSquares(coeffs []float64) float64 {
	s := 0.0
	for _, w := range coeffs {
		s += w * w
	}
	return s
}
