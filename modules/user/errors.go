package user

import "errors"

var (
	// ErrNotFound indicates no user matches the given id or handle.
	ErrNotFound = errors.New("user: not found")

	// ErrHandleTaken indicates the handle is already in use.
	ErrHandleTaken = errors.New("user: handle already taken")

	// ErrInfradminImmutable indicates an attempt to delete the reserved
	// infrastructure administrator account.
	ErrInfradminImmutable = errors.New("user: infradmin account cannot be deleted")
)
