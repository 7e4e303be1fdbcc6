package audiofile

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
)

func newAIFFSource(r io.ReadSeeker) (source, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an aiff file", ErrInvalidFile)
	}

	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("%w: missing aiff COMM chunk", ErrInvalidFile)
	}

	return newIntSource(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth), int64(dec.NumSampleFrames), false)
}

func newAIFFEncoder(w io.WriteSeeker, rate, bitDepth, channels int) encoder {
	return aiff.NewEncoder(w, rate, bitDepth, channels)
}
