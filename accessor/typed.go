package accessor

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// getAs combines a path lookup with a cast, wrapping both failure modes in
// package sentinels so callers can branch with errors.Is.
func getAs[T any](data any, path string, convert func(any) (T, error)) (T, error) {
	var zero T
	raw, ok := Get(data, path)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	v, err := convert(raw)
	if err != nil {
		return zero, fmt.Errorf("%w at %s: %v", ErrCast, path, err)
	}
	return v, nil
}

// GetString returns the value at path converted to a string.
func GetString(data any, path string) (string, error) {
	return getAs(data, path, cast.ToStringE)
}

// GetInt returns the value at path converted to an int.
func GetInt(data any, path string) (int, error) {
	return getAs(data, path, cast.ToIntE)
}

// GetInt64 returns the value at path converted to an int64.
func GetInt64(data any, path string) (int64, error) {
	return getAs(data, path, cast.ToInt64E)
}

// GetFloat64 returns the value at path converted to a float64.
func GetFloat64(data any, path string) (float64, error) {
	return getAs(data, path, cast.ToFloat64E)
}

// GetBool returns the value at path converted to a bool.
func GetBool(data any, path string) (bool, error) {
	return getAs(data, path, cast.ToBoolE)
}

// GetTime returns the value at path converted to a time.Time.
func GetTime(data any, path string) (time.Time, error) {
	return getAs(data, path, cast.ToTimeE)
}

// GetDuration returns the value at path converted to a time.Duration.
func GetDuration(data any, path string) (time.Duration, error) {
	return getAs(data, path, cast.ToDurationE)
}

// GetStringSlice returns the value at path converted to a []string.
func GetStringSlice(data any, path string) ([]string, error) {
	return getAs(data, path, cast.ToStringSliceE)
}

// GetStringMap returns the value at path converted to a map[string]any.
func GetStringMap(data any, path string) (map[string]any, error) {
	return getAs(data, path, cast.ToStringMapE)
}

// GetStringOr returns the string at path, or fallback when the path is
// missing or the value cannot be converted.
func GetStringOr(data any, path, fallback string) string {
	v, err := GetString(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetIntOr returns the int at path, or fallback on a miss or failed cast.
func GetIntOr(data any, path string, fallback int) int {
	v, err := GetInt(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetInt64Or returns the int64 at path, or fallback on a miss or failed
// cast.
func GetInt64Or(data any, path string, fallback int64) int64 {
	v, err := GetInt64(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetFloat64Or returns the float64 at path, or fallback on a miss or failed
// cast.
func GetFloat64Or(data any, path string, fallback float64) float64 {
	v, err := GetFloat64(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetBoolOr returns the bool at path, or fallback on a miss or failed cast.
func GetBoolOr(data any, path string, fallback bool) bool {
	v, err := GetBool(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetTimeOr returns the time at path, or fallback on a miss or failed cast.
func GetTimeOr(data any, path string, fallback time.Time) time.Time {
	v, err := GetTime(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetDurationOr returns the duration at path, or fallback on a miss or
// failed cast.
func GetDurationOr(data any, path string, fallback time.Duration) time.Duration {
	v, err := GetDuration(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetStringSliceOr returns the []string at path, or fallback on a miss or
// failed cast.
func GetStringSliceOr(data any, path string, fallback []string) []string {
	v, err := GetStringSlice(data, path)
	if err != nil {
		return fallback
	}
	return v
}

// GetStringMapOr returns the map at path, or fallback on a miss or failed
// cast.
func GetStringMapOr(data any, path string, fallback map[string]any) map[string]any {
	v, err := GetStringMap(data, path)
	if err != nil {
		return fallback
	}
	return v
}
