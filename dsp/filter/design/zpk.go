package design

import (
	"math"
	"math/cmplx"
)

// zpk is a transfer function in zero/pole/gain form, analog or digital
// depending on the stage of the design pipeline.
type zpk struct {
	z []complex128
	p []complex128
	k float64
}

// analogPrototype returns the normalized (1 rad/s) analog Butterworth
// lowpass of order n: n poles evenly spaced on the left half of the unit
// circle, no zeros, unity gain.
func analogPrototype(n int) zpk {
	p := make([]complex128, 0, n)
	for m := -n + 1; m < n; m += 2 {
		theta := math.Pi * float64(m) / float64(2*n)
		p = append(p, -cmplx.Exp(complex(0, theta)))
	}

	return zpk{p: p, k: 1}
}

func (f zpk) degree() int {
	return len(f.p) - len(f.z)
}

// lowpass scales the prototype to cutoff wo.
func (f zpk) lowpass(wo float64) zpk {
	w := complex(wo, 0)

	return zpk{
		z: scaled(f.z, w),
		p: scaled(f.p, w),
		k: f.k * math.Pow(wo, float64(f.degree())),
	}
}

// highpass maps s -> wo/s; excess zeros land at the origin.
func (f zpk) highpass(wo float64) zpk {
	w := complex(wo, 0)
	out := zpk{
		z: make([]complex128, 0, len(f.p)),
		p: make([]complex128, 0, len(f.p)),
	}

	for _, z := range f.z {
		out.z = append(out.z, w/z)
	}

	for _, p := range f.p {
		out.p = append(out.p, w/p)
	}

	for range f.degree() {
		out.z = append(out.z, 0)
	}

	out.k = f.k * real(prodNeg(f.z)/prodNeg(f.p))

	return out
}

// bandpass maps s -> (s^2 + wo^2) / (s*bw), doubling the order.
func (f zpk) bandpass(wo, bw float64) zpk {
	half := complex(bw/2, 0)
	out := zpk{
		z: splitRoots(scaled(f.z, half), wo),
		p: splitRoots(scaled(f.p, half), wo),
	}

	for range f.degree() {
		out.z = append(out.z, 0)
	}

	out.k = f.k * math.Pow(bw, float64(f.degree()))

	return out
}

// bandstop maps s -> (s*bw) / (s^2 + wo^2); excess zeros land at +-j*wo.
func (f zpk) bandstop(wo, bw float64) zpk {
	half := complex(bw/2, 0)

	inv := func(rs []complex128) []complex128 {
		out := make([]complex128, len(rs))
		for i, r := range rs {
			out[i] = half / r
		}
		return out
	}

	out := zpk{
		z: splitRoots(inv(f.z), wo),
		p: splitRoots(inv(f.p), wo),
	}

	for range f.degree() {
		out.z = append(out.z, complex(0, wo))
	}

	for range f.degree() {
		out.z = append(out.z, complex(0, -wo))
	}

	out.k = f.k * real(prodNeg(f.z)/prodNeg(f.p))

	return out
}

// bilinear maps the analog design to the z-plane with fs = 2, placing the
// excess zeros at Nyquist (z = -1).
func (f zpk) bilinear() zpk {
	const fs2 = 4

	out := zpk{
		z: make([]complex128, 0, len(f.p)),
		p: make([]complex128, 0, len(f.p)),
	}

	num, den := complex(1, 0), complex(1, 0)

	for _, z := range f.z {
		out.z = append(out.z, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}

	for _, p := range f.p {
		out.p = append(out.p, (fs2+p)/(fs2-p))
		den *= fs2 - p
	}

	for range f.degree() {
		out.z = append(out.z, -1)
	}

	out.k = f.k * real(num/den)

	return out
}

func scaled(rs []complex128, w complex128) []complex128 {
	out := make([]complex128, len(rs))
	for i, r := range rs {
		out[i] = r * w
	}
	return out
}

// splitRoots returns r +- sqrt(r^2 - wo^2) for every root r, all "+"
// branches first.
func splitRoots(rs []complex128, wo float64) []complex128 {
	wo2 := complex(wo*wo, 0)
	out := make([]complex128, 2*len(rs))

	for i, r := range rs {
		d := cmplx.Sqrt(r*r - wo2)
		out[i] = r + d
		out[len(rs)+i] = r - d
	}

	return out
}

func prodNeg(rs []complex128) complex128 {
	acc := complex(1, 0)
	for _, r := range rs {
		acc *= -r
	}
	return acc
}
