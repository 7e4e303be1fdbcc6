package transform

import (
	"fmt"

	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

// Composite applies its members in order, feeding each one the output of
// the previous. An empty Composite is the identity.
type Composite struct {
	members []Transform
}

// NewComposite chains the given transforms.
func NewComposite(members ...Transform) *Composite {
	return &Composite{members: append([]Transform(nil), members...)}
}

// Members returns the chained transforms in application order.
func (c *Composite) Members() []Transform {
	return append([]Transform(nil), c.members...)
}

// Len returns the number of members.
func (c *Composite) Len() int { return len(c.members) }

// Apply runs every member left to right.
func (c *Composite) Apply(s signal.Signal) (signal.Signal, error) {
	var err error

	for i, t := range c.members {
		s, err = t.Apply(s)
		if err != nil {
			return signal.Signal{}, fmt.Errorf("transform %d (%T): %w", i, t, err)
		}
	}

	return s, nil
}

// Uniform reports whether every member is uniform.
func (c *Composite) Uniform() bool {
	for _, t := range c.members {
		if !t.Uniform() {
			return false
		}
	}
	return true
}
