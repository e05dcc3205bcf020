package dto

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrymomot/datakit/validator"
)

// Validate runs the `validate` tag rules of a struct (and its nested
// structs and slices) and returns validator.ValidationErrors keyed by the
// dotted field path, or nil when everything passes.
//
// Supported rules: required, min=<n>, max=<n>, len=<n>, oneof=<a b c>,
// email, uuid, regexp=<pattern>. For strings, slices and maps min, max and
// len constrain length; for numbers min and max bound the value.
func Validate(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ErrNilTarget
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStruct, v)
	}

	verrs, err := validateStruct(rv, "")
	if err != nil {
		return err
	}
	if len(verrs) == 0 {
		return nil
	}
	return verrs
}

func validateStruct(rv reflect.Value, prefix string) (validator.ValidationErrors, error) {
	var verrs validator.ValidationErrors
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := rv.Field(i)
		path := joinFieldPath(prefix, parseFieldTag(f).name)
		if f.Anonymous && f.Tag.Get("dto") == "" && f.Tag.Get("json") == "" {
			path = prefix
		}

		if tag := f.Tag.Get("validate"); tag != "" && tag != "-" {
			rules, err := fieldRules(fv, path, tag)
			if err != nil {
				return nil, err
			}
			verrs = append(verrs, validator.Extract(validator.Apply(rules...))...)
		}

		// Recurse into nested structures regardless of tags.
		nested, err := validateNested(fv, path)
		if err != nil {
			return nil, err
		}
		verrs = append(verrs, nested...)
	}
	return verrs, nil
}

func validateNested(fv reflect.Value, path string) (validator.ValidationErrors, error) {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil, nil
		}
		fv = fv.Elem()
	}

	// Leaf types have no fields or elements worth walking; uuid.UUID is a
	// [16]byte, so this must happen before the kind switch.
	if fv.Type() == timeType || fv.Type() == uuidType {
		return nil, nil
	}

	switch fv.Kind() {
	case reflect.Struct:
		return validateStruct(fv, path)
	case reflect.Slice, reflect.Array:
		var verrs validator.ValidationErrors
		for i := 0; i < fv.Len(); i++ {
			nested, err := validateNested(fv.Index(i), path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			verrs = append(verrs, nested...)
		}
		return verrs, nil
	}
	return nil, nil
}

// fieldRules translates one validate tag into validator rules bound to the
// field's current value.
func fieldRules(fv reflect.Value, path, tag string) ([]validator.Rule, error) {
	orig := fv
	for fv.Kind() == reflect.Pointer && !fv.IsNil() {
		fv = fv.Elem()
	}
	// Wrapping the value lets the path-based rule constructors do the type
	// dispatch; only the reported path is rewritten.
	wrapped := map[string]any{"v": fv.Interface()}
	if orig.Kind() == reflect.Pointer && orig.IsNil() {
		wrapped = map[string]any{}
	}

	var rules []validator.Rule
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, _ := strings.Cut(part, "=")

		var rule validator.Rule
		switch name {
		case "required":
			rule = validator.Rule{
				Check: func() bool { return !orig.IsZero() },
				Error: validator.ValidationError{Path: path, Message: "value is required"},
			}
		case "min":
			n, err := parseBound(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: min=%s at %s", ErrInvalidTag, arg, path)
			}
			if isNumericKind(fv) {
				rule = validator.Min(wrapped, "v", n)
			} else {
				rule = validator.MinLen(wrapped, "v", int(n))
			}
		case "max":
			n, err := parseBound(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: max=%s at %s", ErrInvalidTag, arg, path)
			}
			if isNumericKind(fv) {
				rule = validator.Max(wrapped, "v", n)
			} else {
				rule = validator.MaxLen(wrapped, "v", int(n))
			}
		case "len":
			n, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: len=%s at %s", ErrInvalidTag, arg, path)
			}
			rule = validator.Len(wrapped, "v", n)
		case "oneof":
			choices := strings.Fields(arg)
			if len(choices) == 0 {
				return nil, fmt.Errorf("%w: oneof needs choices at %s", ErrInvalidTag, path)
			}
			rule = validator.OneOf(wrapped, "v", choices...)
		case "email":
			rule = validator.Email(wrapped, "v")
		case "uuid":
			rule = validator.UUID(wrapped, "v")
		case "regexp":
			re, err := regexp.Compile(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: regexp=%s at %s: %v", ErrInvalidTag, arg, path, err)
			}
			rule = validator.Match(wrapped, "v", re)
		default:
			return nil, fmt.Errorf("%w: unknown rule %q at %s", ErrInvalidTag, name, path)
		}

		rule.Error.Path = path
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseBound(arg string) (float64, error) {
	return strconv.ParseFloat(arg, 64)
}

func isNumericKind(fv reflect.Value) bool {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return false
		}
		fv = fv.Elem()
	}
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func joinFieldPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
