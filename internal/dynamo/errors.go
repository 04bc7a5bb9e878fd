package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a particle with NaN or Inf position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrAllocation indicates the tree could not be built within its node budget.
	ErrAllocation = errors.New("dynamo: tree node budget exhausted")
)

// SimulationError wraps an error with the step at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
