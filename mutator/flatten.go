package mutator

import (
	"sort"
	"strconv"

	"github.com/dmitrymomot/datakit/accessor"
)

// Flatten converts nested maps and slices into a flat map keyed by dotted
// leaf paths, with literal dots in keys escaped. Empty containers flatten to
// themselves under their path.
func Flatten(data any) map[string]any {
	out := make(map[string]any)
	for _, p := range accessor.Paths(data) {
		if v, ok := accessor.Get(data, p); ok {
			out[p] = v
		}
	}
	return out
}

// Expand rebuilds a nested structure from a flat dot-keyed map, the inverse
// of Flatten. Integer segments produce slices.
func Expand(flat map[string]any) (map[string]any, error) {
	// Deterministic order so slice elements land before higher indexes.
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sortPaths(keys)

	var cur any = map[string]any{}
	for _, k := range keys {
		next, err := Set(cur, k, flat[k])
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur.(map[string]any), nil
}

// sortPaths orders paths segment-wise, comparing integer segments
// numerically so slice indexes expand in order ("2" before "10").
func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool { return pathLess(paths[i], paths[j]) })
}

func pathLess(a, b string) bool {
	as, bs := accessor.SplitPath(a), accessor.SplitPath(b)
	for k := 0; k < len(as) && k < len(bs); k++ {
		if as[k] == bs[k] {
			continue
		}
		ai, aerr := strconv.Atoi(as[k])
		bi, berr := strconv.Atoi(bs[k])
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return as[k] < bs[k]
	}
	return len(as) < len(bs)
}
