// Package mapper transforms nested data structures using template
// expressions, copying values from a source into a freshly built target.
//
// A mapping is a set of rules from target paths to templates. Inside a
// template, {{ expr }} placeholders are evaluated against the source; text
// outside placeholders is literal:
//
//	m := mapper.New()
//	out, err := m.Map(src, map[string]string{
//	    "customer.name":  "{{ user.profile.name | trim | title }}",
//	    "customer.label": "{{ user.profile.name }} <{{ user.profile.email }}>",
//	    "total":          "{{ orders.*.total | sum }}",
//	})
//
// # Expression language
//
// An expression is a dotted path (accessor syntax, including the "*"
// wildcard), optionally followed by query clauses and a filter pipeline:
//
//	path [WHERE cond [AND cond]...]
//	     [ORDER BY path [ASC|DESC][, path [ASC|DESC]]...]
//	     [LIMIT n] [OFFSET n]
//	     [| filter[:arg[,arg]]]...
//
// Query clauses require a wildcard in the path. They operate on the
// collection the last wildcard expands to; condition and ORDER BY paths are
// relative to each element:
//
//	{{ orders.*.total WHERE status = "paid" AND total > 10
//	   ORDER BY total DESC LIMIT 5 | sum }}
//
// Condition operators: =, !=, >, >=, <, <=, LIKE (SQL-style, % and _
// wildcards, case-insensitive), IN (a, b, c), CONTAINS. Literals are
// double-quoted strings, numbers, true, false and null. Keywords are
// case-insensitive.
//
// # Filters
//
// Filters run left to right. Scalar filters (trim, lower, upper, title,
// snake, camel, kebab, default, replace, prefix, suffix, substr, number,
// date, int, float, bool, string, empty_to_null, null_to_empty) transform
// single values; collection filters (sum, avg, min, max, count, first,
// last, reverse, sort, unique, join, split, keys, values, flatten, compact,
// pluck) transform the lists wildcard paths produce. Custom filters are
// registered globally with RegisterFilter or per mapper with WithFilter.
//
// # Wildcard pairing
//
// When the target path also contains a wildcard, source and target pair up
// element by element, with filters applied per element:
//
//	"items.*.name": "{{ products.*.name WHERE active = true ORDER BY name | trim }}"
//
// # Strictness
//
// By default unresolved paths are skipped (the rule writes nothing).
// WithStrict(true) turns unresolved paths into ErrPathNotFound errors.
//
// Mapping documents can also be loaded from YAML via ParseDocument, and a
// Mapper can be configured from the environment with NewFromEnv.
package mapper
