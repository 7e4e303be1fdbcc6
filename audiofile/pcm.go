package audiofile

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
)

// pcmDecoder is the part of the go-audio wav and aiff decoders used for
// streaming integer PCM.
type pcmDecoder interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

// intSource adapts a go-audio integer PCM decoder to source.
type intSource struct {
	dec      pcmDecoder
	sr       int
	chans    int
	total    int64
	bitDepth int
	// unsigned is set for 8-bit WAV, whose samples are offset binary.
	unsigned bool
	scale    float32
	buf      audio.IntBuffer
}

func newIntSource(dec pcmDecoder, rate, channels, bitDepth int, total int64, unsigned bool) (*intSource, error) {
	maxValue := audio.IntMaxSignedValue(bitDepth)
	if maxValue == 0 {
		return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedFormat, bitDepth)
	}

	return &intSource{
		dec:      dec,
		sr:       rate,
		chans:    channels,
		total:    total,
		bitDepth: bitDepth,
		unsigned: unsigned,
		scale:    1 / float32(maxValue+1),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (s *intSource) rate() int     { return s.sr }
func (s *intSource) channels() int { return s.chans }
func (s *intSource) frames() int64 { return s.total }

func (s *intSource) read(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(&s.buf)
	if n > len(dst) {
		n = len(dst)
	}

	offset := 0
	if s.unsigned {
		offset = 128
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-offset) * s.scale
	}

	if err != nil {
		return n, err
	}

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}
