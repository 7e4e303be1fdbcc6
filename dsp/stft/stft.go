package stft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/stepan-anokhin/audio-processor/dsp/window"
)

// normFloor guards the overlap-add normalisation at the signal edges.
const normFloor = 1e-12

// ErrInvalidParams is returned for windows, hops or FFT sizes that cannot
// describe a short-time transform.
var ErrInvalidParams = errors.New("stft: invalid parameters")

// Spectrogram holds one-sided spectra of consecutive frames. Frames[t] is
// the spectrum of frame Offset+t; every frame has the same number of bins.
type Spectrogram struct {
	Frames [][]complex128
	Offset int
}

// NumFrames returns the number of frames.
func (s *Spectrogram) NumFrames() int { return len(s.Frames) }

// Transform is a short-time Fourier transform with a fixed window and hop.
//
// Frame p covers input samples [p*hop - mid, p*hop - mid + len(win)), where
// mid = len(win)/2, so frame p is centred on sample p*hop. Samples outside
// the signal read as zero. Spectra are scaled by 1/sum(win), so a sinusoid
// of amplitude A shows up with magnitude close to A/2 at its bin.
//
// A Transform owns scratch buffers and an FFT plan and is not safe for
// concurrent use.
type Transform struct {
	win   []float64
	hop   int
	mid   int
	nfft  int
	scale float64
	plan  *algofft.Plan[complex128]
	buf   []complex128
}

// Option configures a Transform.
type Option func(*config)

type config struct {
	nfft int
}

// WithFFTSize sets the FFT length. Frames are zero-padded to it. It must be
// a power of two not smaller than the window. The default is the smallest
// such power of two.
func WithFFTSize(n int) Option {
	return func(c *config) { c.nfft = n }
}

// New creates a Transform for the given analysis window and hop.
func New(win []float64, hop int, opts ...Option) (*Transform, error) {
	if len(win) < 2 {
		return nil, fmt.Errorf("%w: window length %d < 2", ErrInvalidParams, len(win))
	}

	if hop < 1 || hop > len(win) {
		return nil, fmt.Errorf("%w: hop %d outside [1, %d]", ErrInvalidParams, hop, len(win))
	}

	cfg := config{nfft: nextPow2(len(win))}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.nfft < len(win) || cfg.nfft&(cfg.nfft-1) != 0 {
		return nil, fmt.Errorf("%w: FFT size %d must be a power of two >= %d", ErrInvalidParams, cfg.nfft, len(win))
	}

	sum := window.Sum(win)
	if sum == 0 {
		return nil, fmt.Errorf("%w: window sums to zero", ErrInvalidParams)
	}

	plan, err := algofft.NewPlan64(cfg.nfft)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	return &Transform{
		win:   append([]float64(nil), win...),
		hop:   hop,
		mid:   len(win) / 2,
		nfft:  cfg.nfft,
		scale: 1 / sum,
		plan:  plan,
		buf:   make([]complex128, cfg.nfft),
	}, nil
}

// Hop returns the frame advance in samples.
func (t *Transform) Hop() int { return t.hop }

// WindowLen returns the analysis window length.
func (t *Transform) WindowLen() int { return len(t.win) }

// FFTSize returns the zero-padded FFT length.
func (t *Transform) FFTSize() int { return t.nfft }

// Bins returns the number of one-sided frequency bins, nfft/2 + 1.
func (t *Transform) Bins() int { return t.nfft/2 + 1 }

// Frequencies returns the centre frequency in Hz of every bin.
func (t *Transform) Frequencies(sampleRate float64) []float64 {
	f := make([]float64, t.Bins())
	for k := range f {
		f[k] = float64(k) * sampleRate / float64(t.nfft)
	}
	return f
}

// FrameRange returns the half-open range [first, end) of frame indices
// whose window overlaps a signal of n samples. An empty signal still gets
// the single frame centred on sample 0.
func (t *Transform) FrameRange(n int) (first, end int) {
	first = floorDiv(t.mid-len(t.win), t.hop) + 1
	end = ceilDiv(n+t.mid, t.hop)

	return first, max(end, first+1)
}

// OutputLen returns the number of samples Inverse produces for a
// spectrogram of frames frames starting at frame offset.
func (t *Transform) OutputLen(offset, frames int) int {
	if frames <= 0 {
		return 0
	}
	return max((offset+frames-1)*t.hop+len(t.win)-t.mid, 0)
}

// Forward computes the spectrogram of x.
func (t *Transform) Forward(x []float64) (*Spectrogram, error) {
	first, end := t.FrameRange(len(x))
	bins := t.Bins()
	spec := &Spectrogram{
		Frames: make([][]complex128, end-first),
		Offset: first,
	}

	for f := range spec.Frames {
		start := (first+f)*t.hop - t.mid

		clear(t.buf)
		for i, w := range t.win {
			if idx := start + i; idx >= 0 && idx < len(x) {
				t.buf[i] = complex(x[idx]*w, 0)
			}
		}

		if err := t.plan.Forward(t.buf, t.buf); err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
		}

		frame := make([]complex128, bins)
		for k := range frame {
			frame[k] = t.buf[k] * complex(t.scale, 0)
		}

		spec.Frames[f] = frame
	}

	return spec, nil
}

// Inverse synthesises a signal from a spectrogram by window-weighted
// overlap-add normalised by the summed squared window. Applied to an
// unmodified Forward result it reconstructs the input.
func (t *Transform) Inverse(spec *Spectrogram) ([]float64, error) {
	n := t.OutputLen(spec.Offset, len(spec.Frames))
	out := make([]float64, n)
	norm := make([]float64, n)
	half := t.nfft / 2
	bins := t.Bins()

	for f, frame := range spec.Frames {
		if len(frame) != bins {
			return nil, fmt.Errorf("%w: frame %d has %d bins, want %d", ErrInvalidParams, f, len(frame), bins)
		}

		// Mirror for real-valued IFFT.
		t.buf[0] = complex(real(frame[0]), 0)
		t.buf[half] = complex(real(frame[half]), 0)

		for k := 1; k < half; k++ {
			t.buf[k] = frame[k]
			t.buf[t.nfft-k] = complex(real(frame[k]), -imag(frame[k]))
		}

		if err := t.plan.Inverse(t.buf, t.buf); err != nil {
			return nil, fmt.Errorf("stft: inverse FFT failed: %w", err)
		}

		start := (spec.Offset+f)*t.hop - t.mid

		for i, w := range t.win {
			idx := start + i
			if idx < 0 || idx >= n {
				continue
			}

			out[idx] += real(t.buf[i]) / t.scale * w
			norm[idx] += w * w
		}
	}

	for i := range out {
		if norm[i] > normFloor {
			out[i] /= norm[i]
		} else {
			out[i] = 0
		}
	}

	return out, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
