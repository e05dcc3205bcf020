package mutator

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"

	"github.com/dmitrymomot/datakit/accessor"
)

// Set returns a copy of data with value placed at the dotted path, creating
// intermediate containers as needed. The input is never mutated.
func Set(data any, path string, value any) (any, error) {
	segs := accessor.SplitPath(path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	out, err := setSegs(data, segs, value)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", path, err)
	}
	return out, nil
}

// SetAll applies Set across every concrete location a wildcard path expands
// to. Segments after the last wildcard are created on each matched element;
// a path without wildcards behaves like Set.
func SetAll(data any, path string, value any) (any, error) {
	segs := accessor.SplitPath(path)
	last := -1
	for i, seg := range segs {
		if seg == accessor.Wildcard {
			last = i
		}
	}
	if last < 0 {
		return Set(data, path, value)
	}

	base := accessor.JoinPath(segs[:last+1]...)
	rest := segs[last+1:]

	matches := accessor.GetAllWithPaths(data, base)
	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	cur := data
	for _, p := range paths {
		full := p
		if len(rest) > 0 {
			full += "." + accessor.JoinPath(rest...)
		}
		next, err := Set(cur, full, value)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Delete returns a copy of data without the value at path. Deleting a path
// that does not resolve is a no-op; slice elements are removed and the slice
// compacts.
func Delete(data any, path string) (any, error) {
	segs := accessor.SplitPath(path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return deleteSegs(data, segs), nil
}

func setSegs(cur any, segs []string, value any) (any, error) {
	if len(segs) == 0 {
		return value, nil
	}
	seg, rest := segs[0], segs[1:]

	if cur == nil {
		if isIndexSegment(seg) {
			cur = []any{}
		} else {
			cur = map[string]any{}
		}
	}

	switch v := cur.(type) {
	case map[string]any:
		child, err := setSegs(v[seg], rest, value)
		if err != nil {
			return nil, err
		}
		clone := maps.Clone(v)
		clone[seg] = child
		return clone, nil

	case []any:
		idx, appendTo, err := sliceIndex(seg, len(v))
		if err != nil {
			return nil, err
		}
		if appendTo {
			child, err := setSegs(nil, rest, value)
			if err != nil {
				return nil, err
			}
			clone := slices.Clone(v)
			return append(clone, child), nil
		}
		child, err := setSegs(v[idx], rest, value)
		if err != nil {
			return nil, err
		}
		clone := slices.Clone(v)
		clone[idx] = child
		return clone, nil

	default:
		return nil, fmt.Errorf("%w: segment %q over %T", ErrNotContainer, seg, cur)
	}
}

func deleteSegs(cur any, segs []string) any {
	seg, rest := segs[0], segs[1:]

	switch v := cur.(type) {
	case map[string]any:
		child, ok := v[seg]
		if !ok {
			return cur
		}
		clone := maps.Clone(v)
		if len(rest) == 0 {
			delete(clone, seg)
		} else {
			clone[seg] = deleteSegs(child, rest)
		}
		return clone

	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return cur
		}
		if idx < 0 {
			idx += len(v)
		}
		if idx < 0 || idx >= len(v) {
			return cur
		}
		if len(rest) == 0 {
			return slices.Delete(slices.Clone(v), idx, idx+1)
		}
		clone := slices.Clone(v)
		clone[idx] = deleteSegs(v[idx], rest)
		return clone

	default:
		return cur
	}
}

// sliceIndex resolves a Set segment against a slice of length n. "-1" and
// the one-past-the-end index both append; gaps beyond that are rejected.
func sliceIndex(seg string, n int) (idx int, appendTo bool, err error) {
	i, convErr := strconv.Atoi(seg)
	if convErr != nil {
		return 0, false, fmt.Errorf("%w: segment %q is not a slice index", ErrInvalidPath, seg)
	}
	switch {
	case i == -1 || i == n:
		return 0, true, nil
	case i >= 0 && i < n:
		return i, false, nil
	default:
		return 0, false, fmt.Errorf("%w: index %d with length %d", ErrIndexOutOfRange, i, n)
	}
}

func isIndexSegment(seg string) bool {
	i, err := strconv.Atoi(seg)
	return err == nil && i >= -1
}
