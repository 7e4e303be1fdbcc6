package audiofile

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

func newWAVSource(r io.ReadSeeker) (source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrInvalidFile)
	}

	if f := dec.WavAudioFormat; f != wavFormatPCM && f != wavFormatExtensible {
		return nil, fmt.Errorf("%w: wav audio format %d", ErrUnsupportedFormat, f)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	frameBytes := channels * bitDepth / 8

	total := int64(-1)
	if frameBytes > 0 {
		total = dec.PCMLen() / int64(frameBytes)
	}

	return newIntSource(dec, int(dec.SampleRate), channels, bitDepth, total, bitDepth == 8)
}

func newWAVEncoder(w io.WriteSeeker, rate, bitDepth, channels int) encoder {
	return wav.NewEncoder(w, rate, bitDepth, channels, wavFormatPCM)
}
