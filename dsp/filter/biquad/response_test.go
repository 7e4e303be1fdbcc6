package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestCoefficients_MagnitudeSquaredMatchesResponse(t *testing.T) {
	t.Parallel()

	const sr = 48000.0

	for _, c := range twoSectionCoeffs() {
		for _, f := range []float64{0, 100, 1000, 5000, 12000, 23999} {
			h := c.Response(f, sr)
			want := real(h)*real(h) + imag(h)*imag(h)

			if got := c.MagnitudeSquared(f, sr); math.Abs(got-want) > 1e-9*math.Max(1, want) {
				t.Fatalf("MagnitudeSquared(%v) = %v, want %v", f, got, want)
			}
		}
	}
}

func TestChain_ResponseIsProductOfSections(t *testing.T) {
	t.Parallel()

	const sr = 44100.0

	coeffs := twoSectionCoeffs()
	chain := NewChain(coeffs, WithGain(0.5))

	for _, f := range []float64{50, 440, 3000, 15000} {
		want := 0.5 * coeffs[0].Response(f, sr) * coeffs[1].Response(f, sr)
		got := chain.Response(f, sr)

		if cmplx.Abs(got-want) > 1e-12 {
			t.Fatalf("Response(%v) = %v, want %v", f, got, want)
		}

		db := MagnitudeDB(coeffs, f, sr) + 20*math.Log10(0.5)
		if math.Abs(chain.MagnitudeDB(f, sr)-db) > 1e-9 {
			t.Fatalf("MagnitudeDB(%v) = %v, want %v", f, chain.MagnitudeDB(f, sr), db)
		}
	}
}

func TestChain_DCResponseMatchesDCGain(t *testing.T) {
	t.Parallel()

	coeffs := twoSectionCoeffs()
	want := coeffs[0].DCGain() * coeffs[1].DCGain()

	if got := real(NewChain(coeffs).Response(0, 48000)); math.Abs(got-want) > 1e-12 {
		t.Fatalf("H(0) = %v, want %v", got, want)
	}
}
