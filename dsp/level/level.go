// Package level measures per-channel signal levels over a stream of blocks.
package level

import (
	"math"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// Level holds the level statistics of one channel.
type Level struct {
	Samples       int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64
	Peak          float64 // max |x|
	PeakdB        float64
	PeakPos       int     // sample index of the first peak
	CrestdB       float64 // peak / RMS, 0 for silence
	ZeroCrossings int
}

// DB converts an amplitude to decibels: 20·log10(|a|). Zero maps to -Inf.
func DB(a float64) float64 {
	a = math.Abs(a)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

type channelMeter struct {
	n             int
	mean          float64
	sumSq         float64
	peak          float64
	peakPos       int
	zeroCrossings int
	last          float64
}

func (c *channelMeter) update(samples []float32) {
	for _, v := range samples {
		x := float64(v)
		c.n++

		// Welford mean.
		c.mean += (x - c.mean) / float64(c.n)
		c.sumSq += x * x

		if a := math.Abs(x); a > c.peak {
			c.peak = a
			c.peakPos = c.n - 1
		}

		if c.n > 1 && c.last*x < 0 {
			c.zeroCrossings++
		}
		c.last = x
	}
}

func (c *channelMeter) result() Level {
	if c.n == 0 {
		return Level{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
	}

	rms := math.Sqrt(c.sumSq / float64(c.n))

	var crest float64
	if rms > 0 {
		crest = DB(c.peak / rms)
	}

	return Level{
		Samples:       c.n,
		DC:            c.mean,
		RMS:           rms,
		RMSdB:         DB(rms),
		Peak:          c.peak,
		PeakdB:        DB(c.peak),
		PeakPos:       c.peakPos,
		CrestdB:       crest,
		ZeroCrossings: c.zeroCrossings,
	}
}

// Meter accumulates levels across consecutive blocks of one stream. The
// channel count is fixed by the first non-empty block.
type Meter struct {
	channels []channelMeter
}

// NewMeter returns an empty Meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Update adds a block. Blocks must all have the same number of channels.
func (m *Meter) Update(s signal.Signal) error {
	if s.Channels() == 0 {
		return nil
	}

	if m.channels == nil {
		m.channels = make([]channelMeter, s.Channels())
	}

	if s.Channels() != len(m.channels) {
		return &signal.IncompatibleSignalError{Op: "level", Property: "channels", Want: len(m.channels), Got: s.Channels()}
	}

	for c, ch := range s.Data {
		m.channels[c].update(ch)
	}

	return nil
}

// Result returns one Level per channel.
func (m *Meter) Result() []Level {
	out := make([]Level, len(m.channels))
	for c := range m.channels {
		out[c] = m.channels[c].result()
	}
	return out
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	m.channels = nil
}

// Measure returns the levels of a whole signal.
func Measure(s signal.Signal) []Level {
	m := NewMeter()
	_ = m.Update(s)
	return m.Result()
}
