package mapper

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/datakit/accessor"
)

// FilterFunc transforms a value inside a pipeline. Arguments come from the
// template, already unquoted.
type FilterFunc func(v any, args ...string) (any, error)

var (
	registryMu sync.RWMutex
	registry   = builtinFilters()
)

// RegisterFilter adds or replaces a filter in the global registry used by
// mappers created afterwards. Filters for a single mapper are better passed
// via WithFilter.
func RegisterFilter(name string, fn FilterFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

func filterSnapshot() map[string]FilterFunc {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return maps.Clone(registry)
}

func builtinFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		// Scalar filters.
		"trim":          stringFilter(strings.TrimSpace),
		"lower":         stringFilter(strings.ToLower),
		"upper":         stringFilter(strings.ToUpper),
		"title":         stringFilter(cases.Title(language.Und).String),
		"snake":         stringFilter(toSnakeCase),
		"camel":         stringFilter(toCamelCase),
		"kebab":         stringFilter(toKebabCase),
		"default":       filterDefault,
		"empty_to_null": filterEmptyToNull,
		"null_to_empty": filterNullToEmpty,
		"replace":       filterReplace,
		"prefix":        filterPrefix,
		"suffix":        filterSuffix,
		"substr":        filterSubstr,
		"number":        filterNumber,
		"date":          filterDate,
		"int":           castFilter(cast.ToInt64E),
		"float":         castFilter(cast.ToFloat64E),
		"bool":          castFilter(cast.ToBoolE),
		"string":        castFilter(cast.ToStringE),

		// Collection filters.
		"sum":     filterSum,
		"avg":     filterAvg,
		"min":     filterMin,
		"max":     filterMax,
		"count":   filterCount,
		"first":   filterFirst,
		"last":    filterLast,
		"reverse": filterReverse,
		"sort":    filterSort,
		"unique":  filterUnique,
		"join":    filterJoin,
		"split":   filterSplit,
		"keys":    filterKeys,
		"values":  filterValues,
		"flatten": filterFlatten,
		"compact": filterCompact,
		"pluck":   filterPluck,
	}
}

// applyFilters runs the pipeline left to right, wrapping failures with the
// filter name for diagnosis.
func applyFilters(v any, calls []filterCall) (any, error) {
	var err error
	for _, call := range calls {
		v, err = call.fn(v, call.args...)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFilter, call.name, err)
		}
	}
	return v, nil
}

func stringFilter(fn func(string) string) FilterFunc {
	return func(v any, _ ...string) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func castFilter[T any](fn func(any) (T, error)) FilterFunc {
	return func(v any, _ ...string) (any, error) {
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func filterDefault(v any, args ...string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("default expects one argument, got %d", len(args))
	}
	if v == nil || v == "" {
		return args[0], nil
	}
	return v, nil
}

func filterEmptyToNull(v any, _ ...string) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return v, nil
}

func filterNullToEmpty(v any, _ ...string) (any, error) {
	if v == nil {
		return "", nil
	}
	return v, nil
}

func filterReplace(v any, args ...string) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("replace expects two arguments, got %d", len(args))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	return strings.ReplaceAll(s, args[0], args[1]), nil
}

func filterPrefix(v any, args ...string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("prefix expects one argument, got %d", len(args))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	return args[0] + s, nil
}

func filterSuffix(v any, args ...string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("suffix expects one argument, got %d", len(args))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	return s + args[0], nil
}

// filterSubstr slices by runes, not bytes, so multibyte input is safe.
func filterSubstr(v any, args ...string) (any, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("substr expects one or two arguments, got %d", len(args))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)

	from, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid offset %q", args[0])
	}
	if from < 0 {
		from += len(runes)
	}
	if from < 0 {
		from = 0
	}
	if from >= len(runes) {
		return "", nil
	}

	end := len(runes)
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid length %q", args[1])
		}
		if from+n < end {
			end = from + n
		}
	}
	return string(runes[from:end]), nil
}

func filterNumber(v any, args ...string) (any, error) {
	decimals := 2
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid decimals %q", args[0])
		}
		decimals = n
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, err
	}
	return strconv.FormatFloat(f, 'f', decimals, 64), nil
}

func filterDate(v any, args ...string) (any, error) {
	layout := time.RFC3339
	if len(args) == 1 {
		layout = args[0]
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return nil, err
	}
	return t.Format(layout), nil
}

func filterSum(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, err
		}
		sum += f
	}
	return sum, nil
}

func filterAvg(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return 0.0, nil
	}
	sum, err := filterSum(items, "")
	if err != nil {
		return nil, err
	}
	return sum.(float64) / float64(len(items)), nil
}

func filterMin(v any, _ ...string) (any, error) {
	return extremum(v, func(cmp int) bool { return cmp < 0 })
}

func filterMax(v any, _ ...string) (any, error) {
	return extremum(v, func(cmp int) bool { return cmp > 0 })
}

func extremum(v any, better func(int) bool) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	best := items[0]
	for _, item := range items[1:] {
		if better(compareValues(item, best)) {
			best = item
		}
	}
	return best, nil
}

func filterCount(v any, _ ...string) (any, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case string:
		return len([]rune(val)), nil
	case map[string]any:
		return len(val), nil
	}
	if items, err := toSlice(v); err == nil {
		return len(items), nil
	}
	return 1, nil
}

func filterFirst(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func filterLast(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[len(items)-1], nil
}

func filterReverse(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out, nil
}

func filterSort(v any, args ...string) (any, error) {
	desc := len(args) == 1 && strings.EqualFold(args[0], "desc")
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareValues(out[i], out[j])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out, nil
}

func filterUnique(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	out := make([]any, 0, len(items))
	for _, item := range items {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out, nil
}

func filterJoin(v any, args ...string) (any, error) {
	sep := ", "
	if len(args) == 1 {
		sep = args[0]
	}
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(items))
	for i, item := range items {
		s, err := cast.ToStringE(item)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

func filterSplit(v any, args ...string) (any, error) {
	sep := ","
	if len(args) == 1 {
		sep = args[0]
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return []any{}, nil
	}
	parts := strings.Split(s, sep)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

func filterKeys(v any, _ ...string) (any, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
}

func filterValues(v any, _ ...string) (any, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out, nil
}

func filterFlatten(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	var out []any
	for _, item := range items {
		if inner, err := toSlice(item); err == nil {
			out = append(out, inner...)
			continue
		}
		out = append(out, item)
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

func filterCompact(v any, _ ...string) (any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if item == nil || item == "" {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func filterPluck(v any, args ...string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("pluck expects one argument, got %d", len(args))
	}
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if val, ok := accessor.Get(item, args[0]); ok {
			out = append(out, val)
		}
	}
	return out, nil
}

// toSlice normalizes any slice or array into []any; scalars are rejected.
func toSlice(v any) ([]any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return val, nil
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a collection, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func toSnakeCase(s string) string {
	return delimited(s, '_')
}

func toKebabCase(s string) string {
	return delimited(s, '-')
}

// delimited rewrites a string into lowercase words joined by sep. CamelCase
// humps and any non-alphanumeric runs count as word boundaries.
func delimited(s string, sep rune) string {
	var b strings.Builder
	prevSep := true
	prevLower := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsUpper(r):
			if prevLower && !prevSep {
				b.WriteRune(sep)
			}
			b.WriteRune(unicode.ToLower(r))
			prevSep = false
			prevLower = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSep = false
			prevLower = unicode.IsLower(r)
		default:
			if !prevSep {
				b.WriteRune(sep)
			}
			prevSep = true
			prevLower = false
		}
	}
	return strings.Trim(b.String(), string(sep))
}

func toCamelCase(s string) string {
	snake := toSnakeCase(s)
	var b strings.Builder
	upperNext := false
	for _, r := range snake {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
