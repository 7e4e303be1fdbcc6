package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// encoder is implemented by the go-audio wav and aiff encoders.
type encoder interface {
	Write(buf *audio.IntBuffer) error
	Close() error
}

type encoderFunc func(w io.WriteSeeker, rate, bitDepth, channels int) encoder

// Create creates or truncates path and returns a Writer producing a PCM
// container chosen by the file extension.
func Create(path string, rate int, opts ...WriteOption) (Writer, error) {
	cfg, err := applyWriteOptions(opts)
	if err != nil {
		return nil, err
	}

	if rate <= 0 {
		return nil, fmt.Errorf("%w: rate %d", ErrInvalidOption, rate)
	}

	var newEncoder encoderFunc
	unsigned := false

	switch f := formatOf(path); f {
	case formatWAV:
		newEncoder = newWAVEncoder
		unsigned = cfg.bitDepth == 8
	case formatAIFF:
		newEncoder = newAIFFEncoder
	default:
		return nil, fmt.Errorf("%s: %w: cannot encode %s", path, ErrUnsupportedFormat, f)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return newPCMWriter(file, newEncoder, rate, cfg.bitDepth, unsigned), nil
}

// pcmWriter quantizes signals to integer PCM. The encoder is created on
// the first Write, once the channel count is known.
type pcmWriter struct {
	file       io.WriteSeeker
	closer     io.Closer
	newEncoder encoderFunc
	enc        encoder

	rate     int
	channels int
	bitDepth int
	unsigned bool
	maxValue float64

	buf    audio.IntBuffer
	closed bool
}

func newPCMWriter(file *os.File, newEncoder encoderFunc, rate, bitDepth int, unsigned bool) *pcmWriter {
	return &pcmWriter{
		file:       file,
		closer:     file,
		newEncoder: newEncoder,
		rate:       rate,
		bitDepth:   bitDepth,
		unsigned:   unsigned,
		maxValue:   float64(audio.IntMaxSignedValue(bitDepth)),
	}
}

func (w *pcmWriter) Write(s signal.Signal) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	if err := s.Validate(); err != nil {
		return 0, err
	}

	if s.Rate != w.rate {
		return 0, &signal.IncompatibleSignalError{Op: "write", Property: "rate", Want: w.rate, Got: s.Rate}
	}

	if w.enc == nil {
		w.start(s.Channels())
	}

	if s.Channels() != w.channels {
		return 0, &signal.IncompatibleSignalError{Op: "write", Property: "channels", Want: w.channels, Got: s.Channels()}
	}

	w.quantize(s)

	if err := w.enc.Write(&w.buf); err != nil {
		return 0, err
	}

	return len(w.buf.Data) * w.bitDepth / 8, nil
}

func (w *pcmWriter) start(channels int) {
	w.channels = channels
	w.enc = w.newEncoder(w.file, w.rate, w.bitDepth, channels)
	w.buf = audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: w.rate},
		SourceBitDepth: w.bitDepth,
	}
}

// quantize interleaves s into w.buf, clipping to [-1, 1].
func (w *pcmWriter) quantize(s signal.Signal) {
	n := s.Samples() * w.channels
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]

	offset := 0
	if w.unsigned {
		offset = 128
	}

	for c, ch := range s.Data {
		for i, v := range ch {
			x := float64(v)
			if math.IsNaN(x) {
				x = 0
			}
			x = math.Max(-1, math.Min(1, x))
			w.buf.Data[i*w.channels+c] = int(math.Round(x*w.maxValue)) + offset
		}
	}
}

// Close writes the final header sizes and closes the file. A writer that
// never received a block produces an empty mono container.
func (w *pcmWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error

	if w.enc == nil {
		w.start(1)
		w.buf.Data = w.buf.Data[:0]
		errs = append(errs, w.enc.Write(&w.buf))
	}

	errs = append(errs, w.enc.Close(), w.closer.Close())

	return errors.Join(errs...)
}
