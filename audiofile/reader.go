package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// source is a decoder producing interleaved float32 frames.
type source interface {
	rate() int
	channels() int
	// frames returns the total number of frames announced by the
	// container, or -1 when unknown.
	frames() int64
	// read fills dst with interleaved samples and returns how many values
	// were stored. It returns io.EOF, possibly with n > 0, at the end.
	read(dst []float32) (int, error)
}

// Open opens path for block-wise reading. The decoder is selected by the
// file extension.
func Open(path string, opts ...ReadOption) (Reader, error) {
	cfg, err := applyReadOptions(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := newSource(formatOf(path), f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return newBlockReader(src, f, cfg)
}

func newSource(f format, r io.ReadSeeker) (source, error) {
	switch f {
	case formatWAV:
		return newWAVSource(r)
	case formatAIFF:
		return newAIFFSource(r)
	case formatMP3:
		return newMP3Source(r)
	case formatOgg:
		return newOggSource(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

type blockReader struct {
	src    source
	closer io.Closer
	size   int
	buf    []float32
	done   bool
	closed bool
}

func newBlockReader(src source, closer io.Closer, cfg readConfig) (*blockReader, error) {
	if src.rate() <= 0 || src.channels() <= 0 {
		closer.Close()
		return nil, fmt.Errorf("%w: rate %d, %d channels", ErrInvalidFile, src.rate(), src.channels())
	}

	size := cfg.blockSize(src.rate())

	return &blockReader{
		src:    src,
		closer: closer,
		size:   size,
		buf:    make([]float32, size*src.channels()),
	}, nil
}

func (r *blockReader) Rate() int      { return r.src.rate() }
func (r *blockReader) Channels() int  { return r.src.channels() }
func (r *blockReader) BlockSize() int { return r.size }

func (r *blockReader) Duration() float64 {
	n := r.src.frames()
	if n < 0 {
		return 0
	}
	return float64(n) / float64(r.src.rate())
}

func (r *blockReader) Samples() int {
	return int(r.Duration() * float64(r.src.rate()))
}

func (r *blockReader) Next() (signal.Signal, error) {
	if r.closed {
		return signal.Signal{}, ErrClosed
	}

	if r.done {
		return signal.Signal{}, io.EOF
	}

	n := 0
	for n < len(r.buf) {
		m, err := r.src.read(r.buf[n:])
		n += m

		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}

		if err != nil {
			return signal.Signal{}, err
		}

		if m == 0 {
			r.done = true
			break
		}
	}

	channels := r.src.channels()
	frames := n / channels

	if frames == 0 {
		return signal.Signal{}, io.EOF
	}

	return signal.Signal{Data: deinterleave(r.buf[:frames*channels], channels), Rate: r.src.rate()}, nil
}

func (r *blockReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closer.Close()
}

func deinterleave(in []float32, channels int) [][]float32 {
	frames := len(in) / channels

	out := make([][]float32, channels)
	for c := range out {
		ch := make([]float32, frames)
		for i := range ch {
			ch[i] = in[i*channels+c]
		}
		out[c] = ch
	}

	return out
}
