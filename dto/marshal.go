package dto

import (
	"fmt"
	"reflect"
	"strings"
)

// MarshalOption configures ToMap.
type MarshalOption func(*marshalOptions)

type marshalOptions struct {
	groups map[string]bool
}

// WithGroups enables the named serialization groups. Fields tagged
// group=<name> are only included when their group is enabled.
func WithGroups(names ...string) MarshalOption {
	return func(o *marshalOptions) {
		for _, name := range names {
			o.groups[name] = true
		}
	}
}

// ToMap serializes a struct into a map keyed by `dto` tag names (falling
// back to `json` tags, then field names). Tag options control inclusion:
// "-" drops a field, omitempty drops zero values, omitnil drops nil
// pointers, slices and maps, and group=<name> gates the field on
// WithGroups.
func ToMap(v any, opts ...MarshalOption) (map[string]any, error) {
	o := &marshalOptions{groups: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNotStruct
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotStruct, v)
	}
	return marshalStruct(rv, o)
}

type fieldTag struct {
	name      string
	skip      bool
	omitEmpty bool
	omitNil   bool
	group     string
}

// parseFieldTag reads the dto tag, borrowing the name from the json tag
// when dto does not rename the field.
func parseFieldTag(f reflect.StructField) fieldTag {
	tag := fieldTag{name: f.Name}

	if jsonTag := f.Tag.Get("json"); jsonTag != "" {
		name := strings.SplitN(jsonTag, ",", 2)[0]
		if name == "-" {
			tag.skip = true
		} else if name != "" {
			tag.name = name
		}
	}

	dtoTag, ok := f.Tag.Lookup("dto")
	if !ok {
		return tag
	}
	tag.skip = false

	parts := strings.Split(dtoTag, ",")
	if parts[0] == "-" {
		tag.skip = true
		return tag
	}
	if parts[0] != "" {
		tag.name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch {
		case opt == "omitempty":
			tag.omitEmpty = true
		case opt == "omitnil":
			tag.omitNil = true
		case strings.HasPrefix(opt, "group="):
			tag.group = strings.TrimPrefix(opt, "group=")
		}
	}
	return tag
}

func marshalStruct(rv reflect.Value, o *marshalOptions) (map[string]any, error) {
	out := make(map[string]any)
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := rv.Field(i)

		// Inline anonymous embedded structs unless the tag renames them.
		if f.Anonymous && f.Tag.Get("dto") == "" && f.Tag.Get("json") == "" {
			ev := fv
			for ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					ev = reflect.Value{}
					break
				}
				ev = ev.Elem()
			}
			if ev.IsValid() && ev.Kind() == reflect.Struct {
				inner, err := marshalStruct(ev, o)
				if err != nil {
					return nil, err
				}
				for k, v := range inner {
					out[k] = v
				}
				continue
			}
		}

		tag := parseFieldTag(f)
		if tag.skip {
			continue
		}
		if tag.group != "" && !o.groups[tag.group] {
			continue
		}
		if tag.omitNil && isNilValue(fv) {
			continue
		}
		if tag.omitEmpty && fv.IsZero() {
			continue
		}

		val, err := marshalValue(fv, o)
		if err != nil {
			return nil, err
		}
		out[tag.name] = val
	}
	return out, nil
}

func marshalValue(fv reflect.Value, o *marshalOptions) (any, error) {
	// Leaf types serialize as themselves. Checked before the kind switch:
	// uuid.UUID is a [16]byte and would otherwise explode into an array.
	if fv.Type() == timeType || fv.Type() == uuidType {
		return fv.Interface(), nil
	}

	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if fv.IsNil() {
			return nil, nil
		}
		return marshalValue(fv.Elem(), o)

	case reflect.Struct:
		return marshalStruct(fv, o)

	case reflect.Slice, reflect.Array:
		if fv.Kind() == reflect.Slice && fv.IsNil() {
			return nil, nil
		}
		out := make([]any, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			v, err := marshalValue(fv.Index(i), o)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case reflect.Map:
		if fv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, fv.Len())
		iter := fv.MapRange()
		for iter.Next() {
			v, err := marshalValue(iter.Value(), o)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(iter.Key().Interface())] = v
		}
		return out, nil

	default:
		return fv.Interface(), nil
	}
}

func isNilValue(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return fv.IsNil()
	}
	return false
}
