package config

import "errors"

var (
	// ErrNilPointer is returned when Load is called with a nil target.
	ErrNilPointer = errors.New("config: nil pointer passed to Load")

	// ErrParsingConfig wraps failures to parse environment variables
	// into the target struct.
	ErrParsingConfig = errors.New("config: failed to parse environment")
)
