package validator

import (
	"errors"
	"fmt"
	"strings"
)

// Numeric covers the types numeric bounds can be expressed in.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError is a single failed check, addressed by the dotted path it
// applies to.
type ValidationError struct {
	Path    string
	Message string
}

// ValidationErrors aggregates failures from one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, err := range ve {
		parts[i] = fmt.Sprintf("%s: %s", err.Path, err.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error was recorded for the path.
func (ve ValidationErrors) Has(path string) bool {
	for _, err := range ve {
		if err.Path == path {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for the path.
func (ve ValidationErrors) Get(path string) []string {
	var messages []string
	for _, err := range ve {
		if err.Path == path {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Paths returns the distinct failing paths in first-seen order.
func (ve ValidationErrors) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Path] {
			paths = append(paths, err.Path)
			seen[err.Path] = true
		}
	}
	return paths
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule is a single validation check with the error to report on failure.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes the rules and returns nil or the collected
// ValidationErrors.
func Apply(rules ...Rule) error {
	var verrs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			verrs = append(verrs, rule.Error)
		}
	}
	if verrs.IsEmpty() {
		return nil
	}
	return verrs
}

// Extract pulls ValidationErrors out of an error chain, or nil when the
// error is not validation-related.
func Extract(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	return Extract(err) != nil
}
