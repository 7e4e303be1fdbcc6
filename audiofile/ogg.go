package audiofile

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
)

type oggSource struct {
	dec *oggvorbis.Reader
}

func newOggSource(r io.ReadSeeker) (source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &oggSource{dec: dec}, nil
}

func (s *oggSource) rate() int     { return s.dec.SampleRate() }
func (s *oggSource) channels() int { return s.dec.Channels() }
func (s *oggSource) frames() int64 { return s.dec.Length() }

// read returns interleaved values; oggvorbis trims dst to whole frames.
func (s *oggSource) read(dst []float32) (int, error) {
	return s.dec.Read(dst)
}
