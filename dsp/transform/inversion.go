package transform

import "github.com/stepan-anokhin/audio-processor/dsp/signal"

// Inversion flips the polarity of every sample.
type Inversion struct{}

// NewInversion returns the polarity inversion transform.
func NewInversion() Inversion { return Inversion{} }

// Apply returns -s.
func (Inversion) Apply(s signal.Signal) (signal.Signal, error) {
	out := s.Clone()
	for _, ch := range out.Data {
		for i, v := range ch {
			ch[i] = -v
		}
	}
	return out, nil
}

// Uniform is always true.
func (Inversion) Uniform() bool { return true }
