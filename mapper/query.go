package mapper

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/dmitrymomot/datakit/accessor"
)

// applyQuery filters, orders and slices the elements a wildcard path
// matched. Condition and order paths are relative to each element; the
// path "." addresses the element itself.
func applyQuery(elements []any, e *expr) []any {
	out := elements
	if len(e.where) > 0 {
		filtered := make([]any, 0, len(out))
		for _, el := range out {
			if matchConditions(el, e.where) {
				filtered = append(filtered, el)
			}
		}
		out = filtered
	}

	if len(e.orderBy) > 0 {
		sorted := make([]any, len(out))
		copy(sorted, out)
		sort.SliceStable(sorted, func(i, j int) bool {
			for _, key := range e.orderBy {
				cmp := compareValues(relative(sorted[i], key.path), relative(sorted[j], key.path))
				if cmp == 0 {
					continue
				}
				if key.desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
		out = sorted
	}

	if e.offset > 0 {
		if e.offset >= len(out) {
			out = nil
		} else {
			out = out[e.offset:]
		}
	}
	if e.limit >= 0 && e.limit < len(out) {
		out = out[:e.limit]
	}
	return out
}

func matchConditions(el any, conds []condition) bool {
	for _, c := range conds {
		if !matchCondition(el, c) {
			return false
		}
	}
	return true
}

func matchCondition(el any, c condition) bool {
	v := relative(el, c.path)

	switch c.op {
	case "=":
		return looseEqual(v, c.value)
	case "!=":
		return !looseEqual(v, c.value)
	case ">", ">=", "<", "<=":
		if v == nil || c.value == nil {
			return false
		}
		cmp := compareValues(v, c.value)
		switch c.op {
		case ">":
			return cmp > 0
		case ">=":
			return cmp >= 0
		case "<":
			return cmp < 0
		default:
			return cmp <= 0
		}
	case "LIKE":
		pattern, ok := c.value.(string)
		if !ok || v == nil {
			return false
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return false
		}
		return likeMatch(s, pattern)
	case "IN":
		list, ok := c.value.([]any)
		if !ok {
			return false
		}
		for _, item := range list {
			if looseEqual(v, item) {
				return true
			}
		}
		return false
	case "CONTAINS":
		switch field := v.(type) {
		case string:
			needle, err := cast.ToStringE(c.value)
			if err != nil {
				return false
			}
			return strings.Contains(field, needle)
		default:
			items, err := toSlice(v)
			if err != nil {
				return false
			}
			for _, item := range items {
				if looseEqual(item, c.value) {
					return true
				}
			}
			return false
		}
	}
	return false
}

func relative(el any, path string) any {
	if path == "." || path == "" {
		return el
	}
	v, _ := accessor.Get(el, path)
	return v
}

// looseEqual compares across numeric kinds so an int 2 matches a float
// literal 2.0. Strings and booleans keep their types: "45" never equals 45.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aerr := toFloat(a)
	bf, berr := toFloat(b)
	if aerr == nil && berr == nil {
		return af == bf
	}
	if aerr == nil || berr == nil {
		return false
	}
	if ab, ok := a.(bool); ok {
		bb, isBool := b.(bool)
		return isBool && ab == bb
	}
	if _, isBool := b.(bool); isBool {
		return false
	}
	return cast.ToString(a) == cast.ToString(b)
}

// compareValues orders two values: numerically when both coerce to numbers,
// lexicographically otherwise. Nil sorts first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	af, aerr := toFloat(a)
	bf, berr := toFloat(b)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(cast.ToString(a), cast.ToString(b))
}

// toFloat coerces values of numeric kinds only. Booleans and strings are
// rejected even when cast could convert them, so "45" stays a string in
// comparisons.
func toFloat(v any) (float64, error) {
	switch v.(type) {
	case bool, string, nil:
		return 0, errNotNumeric
	}
	return cast.ToFloat64E(v)
}

var errNotNumeric = errors.New("not numeric")

var (
	likeMu    sync.Mutex
	likeCache = make(map[string]*regexp.Regexp)
)

// likeMatch implements SQL LIKE semantics: % matches any run, _ one rune,
// case-insensitive. Compiled patterns are cached.
func likeMatch(s, pattern string) bool {
	likeMu.Lock()
	re, ok := likeCache[pattern]
	likeMu.Unlock()

	if !ok {
		var b strings.Builder
		b.WriteString("(?is)^")
		for _, r := range pattern {
			switch r {
			case '%':
				b.WriteString(".*")
			case '_':
				b.WriteString(".")
			default:
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		b.WriteString("$")

		compiled, err := regexp.Compile(b.String())
		if err != nil {
			return false
		}
		re = compiled
		likeMu.Lock()
		likeCache[pattern] = re
		likeMu.Unlock()
	}
	return re.MatchString(s)
}
