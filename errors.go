package flux

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrStreamClosed indicates Next was called on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrMissingBody indicates the service returned a success status
	// with no response body to stream.
	ErrMissingBody = errors.New("missing response body")

	// ErrValidation indicates a request failed local validation before
	// being sent to the service.
	ErrValidation = errors.New("validation failed")
)
