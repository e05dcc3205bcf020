package accessor

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Get returns the value at the dotted path. The boolean reports whether the
// full path resolved. An empty path returns the root value itself.
func Get(data any, path string) (any, bool) {
	cur := data
	for _, seg := range SplitPath(path) {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Lookup is Get with an error describing the missing path, suitable for
// callers that propagate failures instead of branching on a boolean.
func Lookup(data any, path string) (any, error) {
	v, ok := Get(data, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return v, nil
}

// Has reports whether a value exists at the path.
func Has(data any, path string) bool {
	_, ok := Get(data, path)
	return ok
}

// Paths returns the dotted paths of every leaf value reachable from data,
// in lexicographic order. Map keys containing dots are escaped.
func Paths(data any) []string {
	var out []string
	collectLeaves(data, "", &out)
	sort.Strings(out)
	return out
}

func collectLeaves(cur any, prefix string, out *[]string) {
	kids := children(cur)
	if kids == nil {
		if prefix != "" {
			*out = append(*out, prefix)
		}
		return
	}
	if len(kids) == 0 && prefix != "" {
		*out = append(*out, prefix)
		return
	}
	for _, kid := range kids {
		p := JoinPath(kid.key)
		if prefix != "" {
			p = prefix + "." + p
		}
		collectLeaves(kid.value, p, out)
	}
}

// step resolves a single path segment against the current value.
func step(cur any, seg string) (any, bool) {
	if cur == nil {
		return nil, false
	}

	// Fast paths for the shapes encoding/json and yaml.v3 produce.
	switch v := cur.(type) {
	case map[string]any:
		val, ok := v[seg]
		return val, ok
	case map[any]any:
		if val, ok := v[seg]; ok {
			return val, true
		}
		if i, err := strconv.Atoi(seg); err == nil {
			if val, ok := v[i]; ok {
				return val, true
			}
		}
		return nil, false
	case []any:
		idx, ok := parseIndex(seg, len(v))
		if !ok {
			return nil, false
		}
		return v[idx], true
	}

	rv := reflect.ValueOf(cur)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		return mapIndex(rv, seg)
	case reflect.Slice, reflect.Array:
		idx, ok := parseIndex(seg, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		return structField(rv, seg)
	}
	return nil, false
}

func mapIndex(rv reflect.Value, seg string) (any, bool) {
	kt := rv.Type().Key()
	switch kt.Kind() {
	case reflect.String:
		mv := rv.MapIndex(reflect.ValueOf(seg).Convert(kt))
		if mv.IsValid() {
			return mv.Interface(), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseInt(seg, 10, 64)
		if err != nil {
			return nil, false
		}
		kv := reflect.ValueOf(i)
		if !kv.CanConvert(kt) {
			return nil, false
		}
		mv := rv.MapIndex(kv.Convert(kt))
		if mv.IsValid() {
			return mv.Interface(), true
		}
	}
	return nil, false
}

// structField resolves a segment against exported struct fields, preferring
// the json tag name over the Go field name. Anonymous embedded structs are
// searched when no direct field matches, mirroring encoding/json promotion.
func structField(rv reflect.Value, seg string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if fieldName(f) == seg || f.Name == seg {
			return rv.Field(i).Interface(), true
		}
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}
		fv := rv.Field(i)
		for fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				fv = reflect.Value{}
				break
			}
			fv = fv.Elem()
		}
		if fv.IsValid() && fv.Kind() == reflect.Struct {
			if v, ok := structField(fv, seg); ok {
				return v, true
			}
		}
	}
	return nil, false
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}
