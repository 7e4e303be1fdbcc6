package transform

import (
	"errors"
	"fmt"
)

// ErrInvalidParam is the common cause of every transform configuration
// error. Match it with errors.Is.
var ErrInvalidParam = errors.New("transform: invalid parameter")

// FilterConfigError reports filter parameters that cannot be realised,
// either at construction or for the sampling rate seen at Apply time.
type FilterConfigError struct {
	Filter string
	Reason string
	Err    error
}

func (e *FilterConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Filter, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Filter, e.Reason)
}

func (e *FilterConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidParam, e.Err}
	}
	return []error{ErrInvalidParam}
}

// SpectralConfigError reports invalid STFT-based transform parameters.
type SpectralConfigError struct {
	Transform string
	Reason    string
}

func (e *SpectralConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Transform, e.Reason)
}

func (e *SpectralConfigError) Unwrap() error { return ErrInvalidParam }
