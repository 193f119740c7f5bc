package repository

import "errors"

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned on unique-field collisions detected by
	// pre-checks, e.g. a user email already registered.
	ErrDuplicate = errors.New("duplicate record")
)
