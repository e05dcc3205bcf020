// Package mutator writes to nested map and slice structures using the same
// dotted path syntax the accessor package reads with.
//
// All operations are copy-on-write: containers along the touched path are
// shallow-copied, so the input value is never mutated and untouched branches
// are shared with the result:
//
//	src := map[string]any{"user": map[string]any{"name": "Jane"}}
//	out, err := mutator.Set(src, "user.email", "jane@example.com")
//	// src is unchanged; out carries both fields
//
// Set creates intermediate containers as needed: a missing segment becomes a
// map, unless the following segment is an integer (or "-1"), in which case a
// slice is created. An integer segment may extend a slice by exactly one
// element; "-1" appends.
//
// Delete removes map keys and compacts slices. Merge deep-merges two maps
// with the source side winning on conflicts. Flatten and Expand convert
// between nested form and a flat dot-keyed map.
package mutator
