package accessor

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// GetAll returns every value matching a path that may contain "*" wildcard
// segments, in deterministic order (sorted map keys, slice order, struct
// declaration order). A path without wildcards behaves like Get, yielding
// zero or one result.
func GetAll(data any, path string) []any {
	var out []any
	walk(data, SplitPath(path), "", func(_ string, v any) {
		out = append(out, v)
	})
	return out
}

// GetAllWithPaths is GetAll reporting each match under its resolved concrete
// path, with wildcards replaced by the keys and indexes they expanded to.
func GetAllWithPaths(data any, path string) map[string]any {
	out := make(map[string]any)
	walk(data, SplitPath(path), "", func(p string, v any) {
		out[p] = v
	})
	return out
}

// First returns the first wildcard match, if any.
func First(data any, path string) (any, bool) {
	matches := GetAll(data, path)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

func walk(cur any, segs []string, prefix string, emit func(path string, v any)) {
	if len(segs) == 0 {
		emit(prefix, cur)
		return
	}
	seg, rest := segs[0], segs[1:]

	if seg == Wildcard {
		for _, kid := range children(cur) {
			walk(kid.value, rest, extendPath(prefix, kid.key), emit)
		}
		return
	}

	next, ok := step(cur, seg)
	if !ok {
		return
	}
	walk(next, rest, extendPath(prefix, seg), emit)
}

func extendPath(prefix, seg string) string {
	if prefix == "" {
		return JoinPath(seg)
	}
	return prefix + "." + JoinPath(seg)
}

type child struct {
	key   string
	value any
}

// children enumerates a container's elements in deterministic order, or nil
// when the value is a scalar that cannot be expanded.
func children(cur any) []child {
	if cur == nil {
		return nil
	}

	switch v := cur.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kids := make([]child, len(keys))
		for i, k := range keys {
			kids[i] = child{key: k, value: v[k]}
		}
		return kids
	case []any:
		kids := make([]child, len(v))
		for i, e := range v {
			kids[i] = child{key: strconv.Itoa(i), value: e}
		}
		return kids
	}

	rv := reflect.ValueOf(cur)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		keys := rv.MapKeys()
		kids := make([]child, 0, len(keys))
		for _, k := range keys {
			kids = append(kids, child{key: fmt.Sprint(k.Interface()), value: rv.MapIndex(k).Interface()})
		}
		sort.Slice(kids, func(i, j int) bool { return kids[i].key < kids[j].key })
		return kids
	case reflect.Slice, reflect.Array:
		kids := make([]child, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			kids[i] = child{key: strconv.Itoa(i), value: rv.Index(i).Interface()}
		}
		return kids
	case reflect.Struct:
		rt := rv.Type()
		var kids []child
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			kids = append(kids, child{key: fieldName(f), value: rv.Field(i).Interface()})
		}
		return kids
	}
	return nil
}
