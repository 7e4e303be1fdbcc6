package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/stepan-anokhin/audio-processor/dsp/filter/design"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
	"github.com/stepan-anokhin/audio-processor/internal/testutil"
)

func TestLowPass_PassesLowStopsHigh(t *testing.T) {
	t.Parallel()

	const cutoff, rate = 1000.0, 16000

	for _, rollOff := range []int{6, 12, 24} {
		lp, err := NewLowPass(cutoff, rollOff)
		if err != nil {
			t.Fatal(err)
		}

		passed := settledPeak(mustApply(t, lp, testutil.Sinusoid(rate, 1, cutoff/2)))
		stopped := settledPeak(mustApply(t, lp, testutil.Sinusoid(rate, 1, cutoff*2)))

		if passed/stopped <= math.Sqrt2 {
			t.Fatalf("roll-off %d: pass/stop ratio = %v, want > sqrt(2)", rollOff, passed/stopped)
		}
	}
}

func TestLowPass_AboveNyquistIsIdentity(t *testing.T) {
	t.Parallel()

	s := testutil.Noise(7, 16000, 2, 4000, 0.5)

	for _, cutoff := range []float64{8000, 9000, 20000} {
		lp, _ := NewLowPass(cutoff, DefaultRollOff)
		if out := mustApply(t, lp, s); !out.Equal(s) {
			t.Fatalf("cutoff %v: output differs from input", cutoff)
		}
	}
}

func TestHighPass_PassesHighStopsLow(t *testing.T) {
	t.Parallel()

	const cutoff, rate = 1000.0, 16000

	hp, err := NewHighPass(cutoff, DefaultRollOff)
	if err != nil {
		t.Fatal(err)
	}

	passed := settledPeak(mustApply(t, hp, testutil.Sinusoid(rate, 1, cutoff*2)))
	stopped := settledPeak(mustApply(t, hp, testutil.Sinusoid(rate, 1, cutoff/2)))

	if passed/stopped <= math.Sqrt2 {
		t.Fatalf("pass/stop ratio = %v, want > sqrt(2)", passed/stopped)
	}

	if hp.Kind() != design.Highpass || hp.Cutoff() != cutoff || hp.RollOff() != 6 {
		t.Fatal("unexpected accessors")
	}
}

func TestHighPass_AboveNyquistAttenuates(t *testing.T) {
	t.Parallel()

	hp, err := NewHighPass(9000, 24)
	if err != nil {
		t.Fatal(err)
	}

	probe := testutil.Sinusoid(16000, 1, 1000)
	if peak := settledPeak(mustApply(t, hp, probe)); peak > 0.01 {
		t.Fatalf("peak = %v, want heavy attenuation", peak)
	}
}

func TestOneSideFilter_Errors(t *testing.T) {
	t.Parallel()

	var fe *FilterConfigError

	for _, tc := range []struct {
		name    string
		cutoff  float64
		rollOff int
	}{
		{"zero cutoff", 0, 6},
		{"negative cutoff", -100, 6},
		{"nan cutoff", math.NaN(), 6},
		{"order zero", 1000, 5},
	} {
		if _, err := NewLowPass(tc.cutoff, tc.rollOff); !errors.As(err, &fe) || !errors.Is(err, ErrInvalidParam) {
			t.Fatalf("%s: err = %v, want FilterConfigError", tc.name, err)
		}
	}

	hp, _ := NewHighPass(16000, 6)
	if _, err := hp.Apply(signal.Zeros(1, 10, 16000)); !errors.As(err, &fe) {
		t.Fatalf("cutoff >= rate: err = %v, want FilterConfigError", err)
	}
}

func TestOneSideFilter_ConstantInputHasNoTransient(t *testing.T) {
	t.Parallel()

	data := make([]float32, 2000)
	for i := range data {
		data[i] = 0.5
	}
	s := signal.Signal{Data: [][]float32{data}, Rate: 16000}

	lp, _ := NewLowPass(500, 24)
	out := mustApply(t, lp, s)

	for i, v := range out.Data[0] {
		if math.Abs(float64(v)-0.5) > 1e-4 {
			t.Fatalf("y[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestOneSideFilter_BlockwiseApproximatesWhole(t *testing.T) {
	t.Parallel()

	s := testutil.Sinusoid(16000, 1, 100)
	lp, _ := NewLowPass(4000, 12)

	whole := mustApply(t, lp, s)

	var joined signal.Signal
	for start := 0; start < s.Samples(); start += 4000 {
		block := mustApply(t, lp, s.Slice(start, start+4000))
		if start == 0 {
			joined = block
			continue
		}

		var err error
		if joined, err = joined.Concatenate(block); err != nil {
			t.Fatal(err)
		}
	}

	diff, err := testutil.MaxAbsDiff(whole.Channel(0), joined.Channel(0))
	if err != nil {
		t.Fatal(err)
	}

	if diff > 0.1 {
		t.Fatalf("max block seam difference = %v, want < 0.1", diff)
	}
}

func TestBandPass(t *testing.T) {
	t.Parallel()

	const rate, low, high = 16000, 2000.0, 4000.0

	bp, err := NewBandPass(low, high, DefaultRollOff)
	if err != nil {
		t.Fatal(err)
	}

	for _, channels := range []int{1, 2} {
		probe := func(f float64) signal.Signal {
			s := testutil.Sinusoid(rate, 1, f)
			if channels == 2 {
				return stereo(s)
			}
			return s
		}

		center := settledPeak(mustApply(t, bp, probe(math.Sqrt(low*high))))
		below := settledPeak(mustApply(t, bp, probe(low/2)))
		above := settledPeak(mustApply(t, bp, probe(6000)))

		if math.Abs(center-1) > 0.1 {
			t.Fatalf("%d ch: centre gain = %v, want ~1", channels, center)
		}

		if below >= 1/math.Sqrt2 || above >= 1/math.Sqrt2 {
			t.Fatalf("%d ch: out-of-band gains %v and %v, want < 0.707", channels, below, above)
		}
	}
}

func TestBandPass_HighEdgeAboveNyquist(t *testing.T) {
	t.Parallel()

	const rate, low = 16000, 2000.0
	high := float64(rate/2) * 1.5

	bp, err := NewBandPass(low, high, DefaultRollOff)
	if err != nil {
		t.Fatal(err)
	}

	center := settledPeak(mustApply(t, bp, testutil.Sinusoid(rate, 1, math.Sqrt(low*high))))
	below := settledPeak(mustApply(t, bp, testutil.Sinusoid(rate, 1, low/2)))

	if math.Abs(center-1) > 0.1 || below >= 1/math.Sqrt2 {
		t.Fatalf("centre = %v below = %v", center, below)
	}

	if l, h := bp.Band(); l != low || h != high {
		t.Fatalf("Band() = %v, %v", l, h)
	}
}

func TestBandStop(t *testing.T) {
	t.Parallel()

	const rate, low, high = 32000, 1000.0, 4000.0

	bs, err := NewBandStop(low, high, DefaultRollOff)
	if err != nil {
		t.Fatal(err)
	}

	below := settledPeak(mustApply(t, bs, testutil.Sinusoid(rate, 1, low/2)))
	center := settledPeak(mustApply(t, bs, testutil.Sinusoid(rate, 1, math.Sqrt(low*high))))
	above := settledPeak(mustApply(t, bs, testutil.Sinusoid(rate, 1, high*2)))

	if math.Abs(below-1) > 0.1 || math.Abs(above-1) > 0.1 {
		t.Fatalf("pass-band gains %v and %v, want ~1", below, above)
	}

	if center >= 0.5 {
		t.Fatalf("stop-band gain = %v, want < 0.5", center)
	}

	if bs.Kind() != design.Bandstop || bs.RollOff() != 6 || !bs.Uniform() {
		t.Fatal("unexpected accessors")
	}
}

func TestTwoSideFilter_Errors(t *testing.T) {
	t.Parallel()

	var fe *FilterConfigError

	for _, tc := range []struct {
		name      string
		low, high float64
		rollOff   int
	}{
		{"zero low", 0, 1000, 6},
		{"inverted", 3000, 1000, 6},
		{"equal", 1000, 1000, 6},
		{"order zero", 100, 1000, 0},
	} {
		if _, err := NewBandStop(tc.low, tc.high, tc.rollOff); !errors.As(err, &fe) {
			t.Fatalf("%s: err = %v, want FilterConfigError", tc.name, err)
		}
	}

	// The band collapses once the upper edge is clamped below Nyquist.
	bp, _ := NewBandPass(7000, 9000, 6)
	if _, err := bp.Apply(signal.Zeros(1, 10, 8000)); !errors.As(err, &fe) {
		t.Fatalf("collapsed band: err = %v, want FilterConfigError", err)
	}
}

func TestFilter_MemoisesPerRate(t *testing.T) {
	t.Parallel()

	lp, _ := NewLowPass(1000, 12)

	mustApply(t, lp, signal.Zeros(1, 10, 16000))
	mustApply(t, lp, signal.Zeros(1, 10, 44100))
	mustApply(t, lp, signal.Zeros(1, 10, 16000))

	n := 0
	lp.memo.Range(func(_, _ any) bool { n++; return true })

	if n != 2 {
		t.Fatalf("memo entries = %d, want 2", n)
	}
}
