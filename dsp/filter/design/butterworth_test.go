package design

import (
	"errors"
	"math"
	"testing"

	"github.com/stepan-anokhin/audio-processor/dsp/filter/biquad"
)

const sr = 16000.0

// centerFreq returns the digital frequency the bilinear map sends the
// analog geometric band centre to.
func centerFreq(lo, hi float64) float64 {
	nyq := sr / 2
	wo := math.Sqrt(prewarp(lo/nyq) * prewarp(hi/nyq))
	return 2 * math.Atan(wo/4) / math.Pi * nyq
}

func mustDesign(t *testing.T, kind Kind, order int, cutoffs ...float64) []biquad.Coefficients {
	t.Helper()

	coeffs, err := Butterworth(kind, order, sr, cutoffs...)
	if err != nil {
		t.Fatalf("Butterworth(%s, %d, %v): %v", kind, order, cutoffs, err)
	}

	return coeffs
}

func TestButterworth_SectionCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    Kind
		order   int
		cutoffs []float64
		want    int
	}{
		{Lowpass, 1, []float64{1000}, 1},
		{Lowpass, 4, []float64{1000}, 2},
		{Lowpass, 5, []float64{1000}, 3},
		{Highpass, 3, []float64{2000}, 2},
		{Bandpass, 1, []float64{500, 2000}, 1},
		{Bandpass, 3, []float64{500, 2000}, 3},
		{Bandstop, 2, []float64{500, 2000}, 2},
	}

	for _, tc := range tests {
		coeffs := mustDesign(t, tc.kind, tc.order, tc.cutoffs...)
		if len(coeffs) != tc.want {
			t.Fatalf("%s order %d: sections = %d, want %d", tc.kind, tc.order, len(coeffs), tc.want)
		}
	}
}

func TestButterworth_Lowpass(t *testing.T) {
	t.Parallel()

	for _, order := range []int{1, 2, 3, 6} {
		coeffs := mustDesign(t, Lowpass, order, 1000)

		if db := biquad.MagnitudeDB(coeffs, 0, sr); math.Abs(db) > 1e-6 {
			t.Fatalf("order %d: DC = %.6f dB, want 0", order, db)
		}

		if db := biquad.MagnitudeDB(coeffs, 1000, sr); math.Abs(db+3.0103) > 0.01 {
			t.Fatalf("order %d: cutoff = %.4f dB, want -3.01", order, db)
		}

		// Roughly 6 dB per octave per order, well past the corner.
		if db := biquad.MagnitudeDB(coeffs, 4000, sr); db > -10*float64(order) {
			t.Fatalf("order %d: 4 kHz = %.2f dB, want below %d", order, db, -10*order)
		}
	}
}

func TestButterworth_Highpass(t *testing.T) {
	t.Parallel()

	for _, order := range []int{1, 2, 5} {
		coeffs := mustDesign(t, Highpass, order, 2000)

		if db := biquad.MagnitudeDB(coeffs, sr/2, sr); math.Abs(db) > 1e-6 {
			t.Fatalf("order %d: Nyquist = %.6f dB, want 0", order, db)
		}

		if db := biquad.MagnitudeDB(coeffs, 2000, sr); math.Abs(db+3.0103) > 0.01 {
			t.Fatalf("order %d: cutoff = %.4f dB, want -3.01", order, db)
		}

		if db := biquad.MagnitudeDB(coeffs, 250, sr); db > -15*float64(order) {
			t.Fatalf("order %d: 250 Hz = %.2f dB, want below %d", order, db, -15*order)
		}
	}
}

func TestButterworth_Bandpass(t *testing.T) {
	t.Parallel()

	const lo, hi = 1000.0, 3000.0

	for _, order := range []int{1, 2, 3} {
		coeffs := mustDesign(t, Bandpass, order, lo, hi)

		if db := biquad.MagnitudeDB(coeffs, centerFreq(lo, hi), sr); math.Abs(db) > 1e-6 {
			t.Fatalf("order %d: centre = %.6f dB, want 0", order, db)
		}

		for _, edge := range []float64{lo, hi} {
			if db := biquad.MagnitudeDB(coeffs, edge, sr); math.Abs(db+3.0103) > 0.01 {
				t.Fatalf("order %d: edge %v = %.4f dB, want -3.01", order, edge, db)
			}
		}

		if db := biquad.MagnitudeDB(coeffs, 100, sr); db > -12 {
			t.Fatalf("order %d: 100 Hz = %.2f dB, want strong attenuation", order, db)
		}
	}
}

func TestButterworth_Bandstop(t *testing.T) {
	t.Parallel()

	const lo, hi = 1000.0, 3000.0

	for _, order := range []int{1, 2, 4} {
		coeffs := mustDesign(t, Bandstop, order, lo, hi)

		if db := biquad.MagnitudeDB(coeffs, 0, sr); math.Abs(db) > 1e-6 {
			t.Fatalf("order %d: DC = %.6f dB, want 0", order, db)
		}

		if db := biquad.MagnitudeDB(coeffs, sr/2, sr); math.Abs(db) > 1e-6 {
			t.Fatalf("order %d: Nyquist = %.6f dB, want 0", order, db)
		}

		if db := biquad.MagnitudeDB(coeffs, centerFreq(lo, hi), sr); db > -60 {
			t.Fatalf("order %d: centre = %.2f dB, want a deep notch", order, db)
		}

		for _, edge := range []float64{lo, hi} {
			if db := biquad.MagnitudeDB(coeffs, edge, sr); math.Abs(db+3.0103) > 0.01 {
				t.Fatalf("order %d: edge %v = %.4f dB, want -3.01", order, edge, db)
			}
		}
	}
}

func TestButterworth_Stable(t *testing.T) {
	t.Parallel()

	designs := [][]biquad.Coefficients{
		mustDesign(t, Lowpass, 8, 100),
		mustDesign(t, Highpass, 8, 7900),
		mustDesign(t, Bandpass, 6, 200, 7990),
		mustDesign(t, Bandstop, 6, 50, 7000),
	}

	for i, coeffs := range designs {
		for j, c := range coeffs {
			// Stability triangle for a monic quadratic denominator.
			if !(math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2) {
				t.Fatalf("design %d section %d unstable: a1=%v a2=%v", i, j, c.A1, c.A2)
			}
		}
	}
}

func TestButterworth_InvalidParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		order   int
		rate    float64
		cutoffs []float64
	}{
		{"zero order", Lowpass, 0, sr, []float64{1000}},
		{"zero rate", Lowpass, 2, 0, []float64{1000}},
		{"zero cutoff", Highpass, 2, sr, []float64{0}},
		{"nyquist cutoff", Lowpass, 2, sr, []float64{sr / 2}},
		{"nan cutoff", Lowpass, 2, sr, []float64{math.NaN()}},
		{"missing edge", Bandpass, 2, sr, []float64{1000}},
		{"inverted band", Bandstop, 2, sr, []float64{3000, 1000}},
		{"equal edges", Bandpass, 2, sr, []float64{1000, 1000}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Butterworth(tc.kind, tc.order, tc.rate, tc.cutoffs...)
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("err = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	for k, want := range map[Kind]string{
		Lowpass: "lowpass", Highpass: "highpass", Bandpass: "bandpass", Bandstop: "bandstop", Kind(9): "Kind(9)",
	} {
		if got := k.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
