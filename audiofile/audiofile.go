package audiofile

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// DefaultBlockDuration is the block length, in seconds, used when neither
// WithBlockDuration nor WithBlockSize is given.
const DefaultBlockDuration = 60.0

// DefaultBitDepth is the PCM sample width of files written by Create.
const DefaultBitDepth = 16

// Reader yields the content of an audio file block by block.
//
// Every block except possibly the last has BlockSize samples per channel.
// Next returns io.EOF once the file is exhausted. A Reader is not safe for
// concurrent use.
type Reader interface {
	// Rate returns the sampling rate in Hz.
	Rate() int
	// Channels returns the number of channels.
	Channels() int
	// BlockSize returns the number of samples per channel in a full block.
	BlockSize() int
	// Duration returns the length in seconds as reported by the container.
	// Compressed formats may only give an estimate.
	Duration() float64
	// Samples returns Duration()·Rate() rounded down.
	Samples() int
	// Next decodes the next block.
	Next() (signal.Signal, error)
	// Close releases the underlying file.
	Close() error
}

// Writer appends signals to an audio file.
type Writer interface {
	// Write encodes s and returns the number of PCM bytes written. The
	// first call fixes the channel count; the rate is fixed at Create.
	Write(s signal.Signal) (int, error)
	// Close finalizes the container header and closes the file.
	Close() error
}

// Codec opens readers and creates writers. The executor in package task
// depends on this interface so tests can substitute in-memory files.
type Codec interface {
	Open(path string, opts ...ReadOption) (Reader, error)
	Create(path string, rate int, opts ...WriteOption) (Writer, error)
}

// Default is the file-system codec backed by Open and Create.
var Default Codec = fileCodec{}

type fileCodec struct{}

func (fileCodec) Open(path string, opts ...ReadOption) (Reader, error) {
	return Open(path, opts...)
}

func (fileCodec) Create(path string, rate int, opts ...WriteOption) (Writer, error) {
	return Create(path, rate, opts...)
}

// ReadOption configures Open.
type ReadOption func(*readConfig)

type readConfig struct {
	duration float64
	size     int
}

// WithBlockDuration sets the block length in seconds. It cannot be
// combined with WithBlockSize.
func WithBlockDuration(seconds float64) ReadOption {
	return func(c *readConfig) {
		c.duration = seconds
	}
}

// WithBlockSize sets the block length in samples per channel. It cannot be
// combined with WithBlockDuration.
func WithBlockSize(samples int) ReadOption {
	return func(c *readConfig) {
		c.size = samples
	}
}

func applyReadOptions(opts []ReadOption) (readConfig, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.duration != 0 && cfg.size != 0:
		return cfg, fmt.Errorf("%w: block duration and block size are mutually exclusive", ErrInvalidOption)
	case cfg.size < 0:
		return cfg, fmt.Errorf("%w: block size %d <= 0", ErrInvalidOption, cfg.size)
	case cfg.duration < 0 || math.IsNaN(cfg.duration) || math.IsInf(cfg.duration, 0):
		return cfg, fmt.Errorf("%w: block duration %v", ErrInvalidOption, cfg.duration)
	case cfg.duration == 0 && cfg.size == 0:
		cfg.duration = DefaultBlockDuration
	}

	return cfg, nil
}

// blockSize resolves the configured block length at the given rate. A
// duration shorter than one sample still yields one-sample blocks.
func (c readConfig) blockSize(rate int) int {
	if c.size > 0 {
		return c.size
	}
	return max(int(c.duration*float64(rate)), 1)
}

// WriteOption configures Create.
type WriteOption func(*writeConfig)

type writeConfig struct {
	bitDepth int
}

// WithBitDepth sets the PCM sample width: 8, 16, 24 or 32 bits.
func WithBitDepth(bits int) WriteOption {
	return func(c *writeConfig) {
		c.bitDepth = bits
	}
}

func applyWriteOptions(opts []WriteOption) (writeConfig, error) {
	cfg := writeConfig{bitDepth: DefaultBitDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch cfg.bitDepth {
	case 8, 16, 24, 32:
		return cfg, nil
	default:
		return cfg, fmt.Errorf("%w: bit depth %d", ErrInvalidOption, cfg.bitDepth)
	}
}

// format identifies a container by file extension.
type format int

const (
	formatUnknown format = iota
	formatWAV
	formatAIFF
	formatMP3
	formatOgg
)

func (f format) String() string {
	switch f {
	case formatWAV:
		return "wav"
	case formatAIFF:
		return "aiff"
	case formatMP3:
		return "mp3"
	case formatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return formatWAV
	case ".aif", ".aiff":
		return formatAIFF
	case ".mp3":
		return formatMP3
	case ".ogg", ".oga":
		return formatOgg
	default:
		return formatUnknown
	}
}

// Readable reports whether Open has a decoder for path's extension.
func Readable(path string) bool {
	return formatOf(path) != formatUnknown
}

// Writable reports whether Create has an encoder for path's extension.
func Writable(path string) bool {
	f := formatOf(path)
	return f == formatWAV || f == formatAIFF
}
