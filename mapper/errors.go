package mapper

import "errors"

// Package-specific errors
var (
	// ErrSyntax is returned when a template or expression cannot be parsed.
	ErrSyntax = errors.New("template syntax error")

	// ErrUnknownFilter is returned when a pipeline names a filter that is
	// not registered.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrFilter is returned when a filter rejects its input or arguments.
	ErrFilter = errors.New("filter failed")

	// ErrPathNotFound is returned in strict mode when a source path does
	// not resolve.
	ErrPathNotFound = errors.New("source path not found")

	// ErrQueryWithoutWildcard is returned when WHERE, ORDER BY, LIMIT or
	// OFFSET is used on a path without a wildcard.
	ErrQueryWithoutWildcard = errors.New("query clause requires a wildcard path")

	// ErrWildcardPairing is returned when a wildcard target path is mapped
	// from a template that cannot produce one value per element.
	ErrWildcardPairing = errors.New("wildcard target requires a single wildcard source expression")

	// ErrMaxDepth is returned when a mapped value nests deeper than the
	// configured limit.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrInvalidDocument is returned when a YAML mapping document is
	// malformed or has an unsupported version.
	ErrInvalidDocument = errors.New("invalid mapping document")

	// ErrConfig is returned when environment configuration cannot be
	// parsed.
	ErrConfig = errors.New("failed to parse mapper configuration")
)
