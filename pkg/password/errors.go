package password

import "errors"

var (
	// ErrHashParse indicates a stored hash string that cannot be parsed.
	// This is an operator-visible server fault, not a client error.
	ErrHashParse = errors.New("password: cannot parse stored hash")

	// ErrSaltGeneration indicates the OS entropy source could not be read.
	ErrSaltGeneration = errors.New("password: cannot generate salt")
)
