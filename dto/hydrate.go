package dto

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"

	"github.com/dmitrymomot/datakit/accessor"
)

// Hydrate decodes src into dst, a non-nil struct pointer. Field names come
// from `dto` tags, falling back to case-insensitive field name matching.
// Scalars are weakly typed ("42" fills an int field), and strings decode
// into time.Time, time.Duration and uuid.UUID. Keys without a matching
// field are ignored.
func Hydrate(src map[string]any, dst any) error {
	return decode(src, dst)
}

// FromPath hydrates dst from the value at a dotted path inside a larger
// document.
func FromPath(src any, path string, dst any) error {
	v, err := accessor.Lookup(src, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHydration, err)
	}
	return decode(v, dst)
}

// Transform hydrates dst from src and then validates it, returning
// validator.ValidationErrors on rule failures.
func Transform(src map[string]any, dst any) error {
	if err := Hydrate(src, dst); err != nil {
		return err
	}
	return Validate(dst)
}

func decode(src, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "dto",
		WeaklyTypedInput: true,
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			stringToUUIDHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHydration, err)
	}
	if err := dec.Decode(src); err != nil {
		return fmt.Errorf("%w: %v", ErrHydration, err)
	}
	return nil
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// stringToTimeHook accepts RFC 3339 timestamps and bare dates.
func stringToTimeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return nil, fmt.Errorf("cannot parse %q as time", s)
}

func stringToUUIDHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != uuidType {
		return data, nil
	}
	return uuid.Parse(data.(string))
}
