package accessor

import (
	"strconv"
	"strings"
)

// Wildcard is the path segment that expands across all elements of a
// collection.
const Wildcard = "*"

// SplitPath splits a dotted path into its segments, honoring backslash
// escapes for literal dots in map keys. An empty path yields no segments,
// addressing the root value.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	if !strings.ContainsRune(path, '\\') {
		return strings.Split(path, ".")
	}

	var segs []string
	var b strings.Builder
	escaped := false
	for _, r := range path {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			segs = append(segs, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	segs = append(segs, b.String())
	return segs
}

// JoinPath assembles segments back into a dotted path, escaping literal dots.
func JoinPath(segs ...string) string {
	escaped := make([]string, len(segs))
	for i, s := range segs {
		s = strings.ReplaceAll(s, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(s, ".", `\.`)
	}
	return strings.Join(escaped, ".")
}

// HasWildcard reports whether any segment of the path is the "*" wildcard.
func HasWildcard(path string) bool {
	for _, seg := range SplitPath(path) {
		if seg == Wildcard {
			return true
		}
	}
	return false
}

// parseIndex interprets a segment as a slice index. Negative indexes count
// from the end of a slice of length n; the normalized index and validity are
// returned.
func parseIndex(seg string, n int) (int, bool) {
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}
