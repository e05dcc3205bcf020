package validator

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/dmitrymomot/datakit/accessor"
)

// Required validates that the path resolves to a non-nil value.
func Required(data any, path string) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			return ok && v != nil
		},
		Error: ValidationError{Path: path, Message: "value is required"},
	}
}

// NonEmptyString validates that the value is a string with non-whitespace
// content. A missing path fails: use it where presence is implied.
func NonEmptyString(data any, path string) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return false
			}
			s, isStr := v.(string)
			return isStr && strings.TrimSpace(s) != ""
		},
		Error: ValidationError{Path: path, Message: "must be a non-empty string"},
	}
}

// MinLen validates that a string (in runes) or collection has at least n
// elements. Passes when the path is missing.
func MinLen(data any, path string, n int) Rule {
	return Rule{
		Check: func() bool {
			length, ok := lengthAt(data, path)
			return !ok || length >= n
		},
		Error: ValidationError{Path: path, Message: fmt.Sprintf("must have at least %d elements", n)},
	}
}

// MaxLen validates that a string (in runes) or collection has at most n
// elements. Passes when the path is missing.
func MaxLen(data any, path string, n int) Rule {
	return Rule{
		Check: func() bool {
			length, ok := lengthAt(data, path)
			return !ok || length <= n
		},
		Error: ValidationError{Path: path, Message: fmt.Sprintf("must have at most %d elements", n)},
	}
}

// Len validates an exact string or collection length. Passes when the path
// is missing.
func Len(data any, path string, n int) Rule {
	return Rule{
		Check: func() bool {
			length, ok := lengthAt(data, path)
			return !ok || length == n
		},
		Error: ValidationError{Path: path, Message: fmt.Sprintf("must have exactly %d elements", n)},
	}
}

// Min validates a numeric lower bound. Non-numeric values fail; a missing
// path passes.
func Min[T Numeric](data any, path string, min T) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return true
			}
			f, err := cast.ToFloat64E(v)
			return err == nil && f >= float64(min)
		},
		Error: ValidationError{Path: path, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

// Max validates a numeric upper bound. Non-numeric values fail; a missing
// path passes.
func Max[T Numeric](data any, path string, max T) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return true
			}
			f, err := cast.ToFloat64E(v)
			return err == nil && f <= float64(max)
		},
		Error: ValidationError{Path: path, Message: fmt.Sprintf("must be at most %v", max)},
	}
}

// OneOf validates membership in a fixed set of string choices. Passes when
// the path is missing.
func OneOf(data any, path string, choices ...string) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return true
			}
			s, err := cast.ToStringE(v)
			if err != nil {
				return false
			}
			for _, c := range choices {
				if s == c {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Path:    path,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(choices, ", ")),
		},
	}
}

// Email validates an RFC 5322 address. Passes when the path is missing.
func Email(data any, path string) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return true
			}
			s, isStr := v.(string)
			if !isStr {
				return false
			}
			addr, err := mail.ParseAddress(s)
			return err == nil && addr.Address == s
		},
		Error: ValidationError{Path: path, Message: "must be a valid email address"},
	}
}

// UUID validates a canonical UUID string. Passes when the path is missing.
func UUID(data any, path string) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return true
			}
			s, isStr := v.(string)
			if !isStr {
				return false
			}
			_, err := uuid.Parse(s)
			return err == nil
		},
		Error: ValidationError{Path: path, Message: "must be a valid UUID"},
	}
}

// Match validates a string against a compiled pattern. Passes when the path
// is missing.
func Match(data any, path string, re *regexp.Regexp) Rule {
	return Rule{
		Check: func() bool {
			v, ok := accessor.Get(data, path)
			if !ok {
				return true
			}
			s, isStr := v.(string)
			return isStr && re.MatchString(s)
		},
		Error: ValidationError{Path: path, Message: fmt.Sprintf("must match pattern %s", re)},
	}
}

// Each expands a wildcard path into rules for every matched element. The
// callback receives the concrete element path and value and returns the
// rules for that element.
func Each(data any, path string, fn func(path string, v any) []Rule) []Rule {
	matches := accessor.GetAllWithPaths(data, path)
	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, p)
	}
	// Deterministic rule order for stable error output.
	sort.Strings(paths)

	var rules []Rule
	for _, p := range paths {
		rules = append(rules, fn(p, matches[p])...)
	}
	return rules
}

func lengthAt(data any, path string) (int, bool) {
	v, ok := accessor.Get(data, path)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case string:
		return len([]rune(val)), true
	case map[string]any:
		return len(val), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}
