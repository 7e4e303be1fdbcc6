package interp

import "math"

// Linear2 interpolates from x0 to x1 at t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Complex2 interpolates from x0 to x1 at t in [0,1], real and imaginary
// parts independently.
func Complex2(t float64, x0, x1 complex128) complex128 {
	return x0 + complex(t, 0)*(x1-x0)
}

// locate splits x into the left grid index and fraction for a grid of n
// points. ok is false when x lies outside [0, n-1].
func locate(x float64, n int) (i int, frac float64, ok bool) {
	if n == 0 || math.IsNaN(x) || x < 0 || x > float64(n-1) {
		return 0, 0, false
	}

	fl := math.Floor(x)
	i = int(fl)

	if i >= n-1 {
		return n - 1, 0, true
	}

	return i, x - fl, true
}

// Uniform samples ys, defined at positions 0..len(ys)-1, at x. Positions
// outside the grid yield 0.
func Uniform(ys []float64, x float64) float64 {
	i, frac, ok := locate(x, len(ys))
	if !ok {
		return 0
	}

	if frac == 0 {
		return ys[i]
	}

	return Linear2(frac, ys[i], ys[i+1])
}

// UniformComplex is Uniform for complex series.
func UniformComplex(ys []complex128, x float64) complex128 {
	i, frac, ok := locate(x, len(ys))
	if !ok {
		return 0
	}

	if frac == 0 {
		return ys[i]
	}

	return Complex2(frac, ys[i], ys[i+1])
}

// LerpInto writes a + t*(b-a) into dst element-wise. All three slices must
// have the same length.
func LerpInto(dst, a, b []complex128, t float64) {
	ct := complex(t, 0)
	for i := range dst {
		dst[i] = a[i] + ct*(b[i]-a[i])
	}
}
