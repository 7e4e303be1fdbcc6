package spectrum

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/stepan-anokhin/audio-processor/dsp/stft"
	"github.com/stepan-anokhin/audio-processor/dsp/window"
)

// ErrTooShort is returned when a signal is too short to analyse.
var ErrTooShort = errors.New("spectrum: signal too short")

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func split(in []complex128) (re, im []float64, buf *scratchBuf) {
	re, im, buf = getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im, buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := split(in)
	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)

	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := split(in)
	vecmath.Power(out, re, im)
	scratchPool.Put(buf)

	return out
}

// MeanMagnitude averages |X[k]| over all frames of a spectrogram.
func MeanMagnitude(spec *stft.Spectrogram) []float64 {
	if spec.NumFrames() == 0 {
		return nil
	}

	acc := make([]float64, len(spec.Frames[0]))
	for _, frame := range spec.Frames {
		vecmath.AddBlockInPlace(acc, Magnitude(frame))
	}

	vecmath.ScaleBlock(acc, acc, 1/float64(spec.NumFrames()))

	return acc
}

// ArgMax returns the index of the largest value, or -1 for empty input.
func ArgMax(xs []float64) int {
	best := -1
	for i, v := range xs {
		if best < 0 || v > xs[best] {
			best = i
		}
	}
	return best
}

// DominantFrequency returns the frequency in Hz of the bin with the
// largest time-averaged magnitude. Analysis uses a Gaussian window of a
// tenth of a second and a quarter-window hop.
func DominantFrequency(x []float64, sampleRate int) (float64, error) {
	m := sampleRate / 10
	if m < 4 {
		return 0, fmt.Errorf("%w: rate %d gives a %d-sample window", ErrTooShort, sampleRate, m)
	}

	if len(x) < m {
		return 0, fmt.Errorf("%w: %d samples < window %d", ErrTooShort, len(x), m)
	}

	win, err := window.Gaussian(m, float64(m/2))
	if err != nil {
		return 0, err
	}

	tr, err := stft.New(win, m/4)
	if err != nil {
		return 0, err
	}

	spec, err := tr.Forward(x)
	if err != nil {
		return 0, err
	}

	return tr.Frequencies(float64(sampleRate))[ArgMax(MeanMagnitude(spec))], nil
}
