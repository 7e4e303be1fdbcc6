package signal

import (
	"errors"
	"fmt"
)

// ErrInvalidSignal is returned by New and Validate for malformed signals.
var ErrInvalidSignal = errors.New("signal: invalid signal")

// IncompatibleSignalError reports an operation over two signals whose
// rate, channel count or sample count disagree.
type IncompatibleSignalError struct {
	Op       string
	Property string
	Want     int
	Got      int
}

func (e *IncompatibleSignalError) Error() string {
	return fmt.Sprintf("signal: cannot %s: %s mismatch (%d vs %d)", e.Op, e.Property, e.Want, e.Got)
}
