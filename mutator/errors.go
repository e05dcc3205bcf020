package mutator

import "errors"

// Package-specific errors
var (
	// ErrInvalidPath is returned for paths that cannot address a writable
	// location, such as an empty path or a non-integer segment against a
	// slice.
	ErrInvalidPath = errors.New("invalid path")

	// ErrIndexOutOfRange is returned when an integer segment would leave a
	// gap beyond the end of a slice.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotContainer is returned when a path traverses through a scalar
	// value that cannot hold children.
	ErrNotContainer = errors.New("value is not a container")
)
