package fluid

import "errors"

// Domain errors for solver construction and stepping.
var (
	// ErrConfiguration indicates a structurally invalid configuration
	// (non-positive dimensions, negative rates, zero iteration counts).
	ErrConfiguration = errors.New("fluid: invalid configuration")

	// ErrInput indicates a rejected per-tick input, such as a negative dt.
	ErrInput = errors.New("fluid: invalid input")
)
