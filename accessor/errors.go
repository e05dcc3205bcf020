package accessor

import "errors"

// Package-specific errors
var (
	// ErrPathNotFound is returned when no value exists at the requested path.
	ErrPathNotFound = errors.New("path not found")

	// ErrCast is returned when a value exists but cannot be converted to the
	// requested type.
	ErrCast = errors.New("cannot cast value")
)
