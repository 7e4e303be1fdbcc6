// Package signal defines the audio signal value shared by every transform:
// a channel-major matrix of float32 samples together with its sampling
// rate.
package signal

import (
	"fmt"
	"math"
)

// Signal is an immutable-by-convention block of multichannel audio.
// Data[c][i] is sample i of channel c. All channels have the same length.
// Library code never modifies a Signal it received; it returns a new one.
type Signal struct {
	Data [][]float32
	Rate int
}

// New validates data and rate and wraps them into a Signal. The slices
// are not copied.
func New(data [][]float32, rate int) (Signal, error) {
	s := Signal{Data: data, Rate: rate}
	if err := s.Validate(); err != nil {
		return Signal{}, err
	}
	return s, nil
}

// Zeros returns a silent signal.
func Zeros(channels, samples, rate int) Signal {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, samples)
	}
	return Signal{Data: data, Rate: rate}
}

// FromFloat64 converts channel-major float64 samples into a Signal.
func FromFloat64(data [][]float64, rate int) Signal {
	out := make([][]float32, len(data))
	for c, ch := range data {
		out[c] = make([]float32, len(ch))
		for i, v := range ch {
			out[c][i] = float32(v)
		}
	}
	return Signal{Data: out, Rate: rate}
}

// Validate checks the shape invariants: at least one channel, equal
// channel lengths and a positive rate.
func (s Signal) Validate() error {
	if s.Rate <= 0 {
		return fmt.Errorf("%w: rate %d <= 0", ErrInvalidSignal, s.Rate)
	}

	if len(s.Data) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidSignal)
	}

	n := len(s.Data[0])
	for c := 1; c < len(s.Data); c++ {
		if len(s.Data[c]) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidSignal, c, len(s.Data[c]), n)
		}
	}

	return nil
}

// Channels returns the number of channels.
func (s Signal) Channels() int { return len(s.Data) }

// Samples returns the number of samples per channel.
func (s Signal) Samples() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Duration returns the length in seconds.
func (s Signal) Duration() float64 {
	if s.Rate <= 0 {
		return 0
	}
	return float64(s.Samples()) / float64(s.Rate)
}

// Channel returns channel c converted to float64.
func (s Signal) Channel(c int) []float64 {
	out := make([]float64, len(s.Data[c]))
	for i, v := range s.Data[c] {
		out[i] = float64(v)
	}
	return out
}

// Clone returns a deep copy.
func (s Signal) Clone() Signal {
	data := make([][]float32, len(s.Data))
	for c, ch := range s.Data {
		data[c] = append([]float32(nil), ch...)
	}
	return Signal{Data: data, Rate: s.Rate}
}

// Equal reports whether both signals have the same rate, shape and
// bit-identical samples.
func (s Signal) Equal(other Signal) bool {
	if s.Rate != other.Rate || len(s.Data) != len(other.Data) {
		return false
	}

	for c := range s.Data {
		if len(s.Data[c]) != len(other.Data[c]) {
			return false
		}
		for i := range s.Data[c] {
			if math.Float32bits(s.Data[c][i]) != math.Float32bits(other.Data[c][i]) {
				return false
			}
		}
	}

	return true
}

// Peak returns the largest absolute sample value over all channels.
func (s Signal) Peak() float32 {
	var peak float32
	for _, ch := range s.Data {
		for _, v := range ch {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
	}
	return peak
}

// Concatenate appends other along the time axis. Rates and channel
// counts must match.
func (s Signal) Concatenate(other Signal) (Signal, error) {
	if s.Rate != other.Rate {
		return Signal{}, &IncompatibleSignalError{Op: "concatenate", Property: "rate", Want: s.Rate, Got: other.Rate}
	}

	if s.Channels() != other.Channels() {
		return Signal{}, &IncompatibleSignalError{Op: "concatenate", Property: "channels", Want: s.Channels(), Got: other.Channels()}
	}

	data := make([][]float32, len(s.Data))
	for c := range s.Data {
		ch := make([]float32, 0, len(s.Data[c])+len(other.Data[c]))
		ch = append(ch, s.Data[c]...)
		data[c] = append(ch, other.Data[c]...)
	}

	return Signal{Data: data, Rate: s.Rate}, nil
}

// Stack appends the channels of other after the channels of s. Rates and
// sample counts must match.
func (s Signal) Stack(other Signal) (Signal, error) {
	if s.Rate != other.Rate {
		return Signal{}, &IncompatibleSignalError{Op: "stack", Property: "rate", Want: s.Rate, Got: other.Rate}
	}

	if s.Samples() != other.Samples() {
		return Signal{}, &IncompatibleSignalError{Op: "stack", Property: "samples", Want: s.Samples(), Got: other.Samples()}
	}

	data := make([][]float32, 0, len(s.Data)+len(other.Data))
	for _, ch := range s.Data {
		data = append(data, append([]float32(nil), ch...))
	}
	for _, ch := range other.Data {
		data = append(data, append([]float32(nil), ch...))
	}

	return Signal{Data: data, Rate: s.Rate}, nil
}

// Slice returns samples [start, end) of every channel as a new signal.
// Bounds are clamped to the signal; end before start gives an empty
// signal.
func (s Signal) Slice(start, end int) Signal {
	n := s.Samples()
	start = min(max(start, 0), n)
	end = min(max(end, start), n)

	data := make([][]float32, len(s.Data))
	for c, ch := range s.Data {
		data[c] = append([]float32(nil), ch[start:end]...)
	}

	return Signal{Data: data, Rate: s.Rate}
}
