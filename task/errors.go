package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTransform is wrapped by InitError when a spec names a
	// transform the registry does not know.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrNonUniform is returned by ExecuteFile in strict mode when the
	// transform is not chunk-safe.
	ErrNonUniform = errors.New("task: transform is not uniform and cannot be applied block-wise")

	// ErrInvalidSpec is returned for task specs that cannot be executed.
	ErrInvalidSpec = errors.New("task: invalid task spec")

	errDuplicateTransform = errors.New("duplicate transform")
)

// InitError reports a transform that could not be built from its spec.
// Params describes the parameters the transform accepts, or is nil when
// the transform is unknown.
type InitError struct {
	Name   string
	Err    error
	Params []Param
}

func (e *InitError) Error() string {
	return fmt.Sprintf("cannot initialize %s transform: %v", e.Name, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// FailedTask records a file task that returned an error or panicked.
type FailedTask struct {
	Task FileTask
	Err  error
}

// TaskExecutionError is returned by Execute when more than Tolerance file
// tasks have failed.
type TaskExecutionError struct {
	Failed    []FailedTask
	Tolerance int
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("%d subtasks failed (tolerance %d), see log for details", len(e.Failed), e.Tolerance)
}

// Unwrap exposes the individual task errors to errors.Is and errors.As.
func (e *TaskExecutionError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Err
	}
	return errs
}

// ParamError reports a parameter value that does not fit its declaration.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

func unknownTransform(name string, known []string) *InitError {
	return &InitError{
		Name: name,
		Err:  fmt.Errorf("%w %q, must be one of: %s", ErrUnknownTransform, name, strings.Join(known, ", ")),
	}
}
