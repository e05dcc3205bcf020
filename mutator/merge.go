package mutator

import "maps"

// Merge deep-merges src into dst and returns the result without mutating
// either input. Nested maps merge recursively; on any other conflict the
// src value wins, so slices are replaced, not concatenated.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil && src == nil {
		return nil
	}
	out := make(map[string]any, len(dst)+len(src))
	maps.Copy(out, dst)

	for k, sv := range src {
		dv, ok := out[k]
		if !ok {
			out[k] = sv
			continue
		}
		dm, dok := dv.(map[string]any)
		sm, sok := sv.(map[string]any)
		if dok && sok {
			out[k] = Merge(dm, sm)
			continue
		}
		out[k] = sv
	}
	return out
}
