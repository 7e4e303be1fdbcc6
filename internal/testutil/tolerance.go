package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireSignalNearlyEqual fails t unless got and want share rate and shape
// and every sample pair is within eps.
func RequireSignalNearlyEqual(t *testing.T, got, want signal.Signal, eps float64) {
	t.Helper()
	if got.Rate != want.Rate {
		t.Fatalf("rate mismatch: got %d, want %d", got.Rate, want.Rate)
	}
	if got.Channels() != want.Channels() {
		t.Fatalf("channel mismatch: got %d, want %d", got.Channels(), want.Channels())
	}
	for c := range got.Data {
		RequireSliceNearlyEqual(t, got.Channel(c), want.Channel(c), eps)
	}
}

// RequireFinite fails t if any sample is NaN or Inf.
func RequireFinite(t *testing.T, s signal.Signal) {
	t.Helper()
	for c, ch := range s.Data {
		for i, v := range ch {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("channel %d index %d: non-finite value %v", c, i, v)
			}
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
