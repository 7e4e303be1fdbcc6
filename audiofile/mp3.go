package audiofile

import (
	"encoding/binary"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
const (
	mp3Channels   = 2
	mp3FrameBytes = 4
)

type mp3Source struct {
	dec *mp3.Decoder
	raw []byte
}

func newMP3Source(r io.ReadSeeker) (source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return &mp3Source{dec: dec}, nil
}

func (s *mp3Source) rate() int     { return s.dec.SampleRate() }
func (s *mp3Source) channels() int { return mp3Channels }

func (s *mp3Source) frames() int64 {
	if n := s.dec.Length(); n >= 0 {
		return n / mp3FrameBytes
	}
	return -1
}

func (s *mp3Source) read(dst []float32) (int, error) {
	want := len(dst) / mp3Channels * mp3FrameBytes
	if want == 0 {
		return 0, nil
	}

	if cap(s.raw) < want {
		s.raw = make([]byte, want)
	}
	s.raw = s.raw[:want]

	n, err := io.ReadFull(s.dec, s.raw)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	n -= n % mp3FrameBytes
	for i := 0; i < n/2; i++ {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.raw[2*i:]))) / 32768
	}

	return n / 2, err
}
