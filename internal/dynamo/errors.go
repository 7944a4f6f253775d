package dynamo

import (
	"errors"
	"fmt"
)

// Configuration errors. Every validating mutator wraps one of these, so
// callers match them with errors.Is.
var (
	// ErrInvalidGain indicates a negative PID gain.
	ErrInvalidGain = errors.New("dynamo: pid gain must be non-negative")

	// ErrInvalidPeriod indicates a non-positive controller period.
	ErrInvalidPeriod = errors.New("dynamo: period must be positive")

	// ErrInvalidRelief indicates a non-positive setpoint relief.
	ErrInvalidRelief = errors.New("dynamo: relief must be positive")

	// ErrInvalidIntegralBounds indicates an upper integral limit that does not exceed the lower one.
	ErrInvalidIntegralBounds = errors.New("dynamo: integral upper limit must exceed lower limit")

	// ErrInvalidPower indicates a commanded power outside [-1, 1].
	ErrInvalidPower = errors.New("dynamo: power must be within [-1, 1]")

	// ErrExportIO indicates an export destination that could not be written.
	ErrExportIO = errors.New("dynamo: cannot write export destination")

	// ErrInvalidRobot indicates a robot parameter outside its physical range.
	ErrInvalidRobot = errors.New("dynamo: invalid robot parameter")

	// ErrInvalidConfig indicates a driver configuration that cannot be run.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation config")

	// ErrUnknownParam indicates a tunable parameter name that does not exist.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrInvalidState indicates a state value that became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ParamError reports the rejected value of a single named parameter.
type ParamError struct {
	Param string
	Value float64
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s = %g", e.Err, e.Param, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Frame   Frame
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
