// Package accessor provides read access to arbitrarily nested Go data
// structures using dotted path expressions.
//
// It understands maps (string or arbitrary keys), slices, arrays and structs
// (exported fields, honoring `json` tags), so the same path works whether the
// data came from encoding/json, yaml.v3 or plain Go values:
//
//	data := map[string]any{
//	    "user": map[string]any{
//	        "profile": map[string]any{"name": "Jane"},
//	        "orders":  []any{map[string]any{"total": 12.5}},
//	    },
//	}
//
//	name, ok := accessor.Get(data, "user.profile.name") // "Jane", true
//	total, _ := accessor.GetFloat64(data, "user.orders.0.total")
//
// # Path syntax
//
// Segments are separated by dots. Integer segments index slices; a negative
// index counts from the end, so "-1" addresses the last element. A literal
// dot inside a map key is escaped with a backslash ("a\.b"). The "*" segment
// expands across all map values (in sorted key order) or slice elements:
//
//	totals := accessor.GetAll(data, "user.orders.*.total")
//
// Multiple wildcards expand depth-first into the cross-product of matches.
//
// # Typed getters
//
// GetString, GetInt, GetFloat64 and friends combine the lookup with a cast
// (github.com/spf13/cast) and report both missing paths and failed
// conversions as errors. Each has a GetXxxOr variant returning a fallback
// instead of an error.
//
// All functions are read-only and safe for concurrent use. For writes see
// the mutator package.
package accessor
