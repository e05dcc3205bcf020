package dto

import "errors"

// Package-specific errors
var (
	// ErrHydration is returned when source data cannot be decoded into the
	// target struct.
	ErrHydration = errors.New("failed to hydrate struct")

	// ErrNotStruct is returned when a value passed for serialization or
	// validation is not a struct or pointer to one.
	ErrNotStruct = errors.New("value is not a struct")

	// ErrNilTarget is returned when the hydration target is nil or not a
	// pointer.
	ErrNilTarget = errors.New("target must be a non-nil pointer")

	// ErrInvalidTag is returned when a validate tag cannot be interpreted.
	ErrInvalidTag = errors.New("invalid validate tag")
)
