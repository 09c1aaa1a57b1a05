package sim

import "errors"

// Engine error taxonomy. Call sites wrap these with context via fmt.Errorf("%w: ...");
// callers test with errors.Is. None of them is fatal to the process.
var (
	// ErrInvalidPolicy reports an unrecognized algorithm name.
	ErrInvalidPolicy = errors.New("invalid policy")
	// ErrInvalidQuantum reports a non-positive Round-Robin quantum.
	ErrInvalidQuantum = errors.New("invalid quantum")
	// ErrInvalidCapacity reports a non-positive frame count.
	ErrInvalidCapacity = errors.New("invalid capacity")
	// ErrMalformedInput reports non-numeric, empty or out-of-domain input.
	ErrMalformedInput = errors.New("malformed input")
)
