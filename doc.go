// Package datakit provides nested data access, mutation and transformation
// for Go: dotted-path reads and writes over maps, slices and structs, a
// template-driven mapper with a small query and filter language, and a DTO
// layer for hydrating, validating and serializing structs.
//
// The module is organized into focused packages:
//
//   - accessor: dotted-path reads with "*" wildcard expansion and typed
//     getters (user.profile.name, orders.*.total)
//   - mutator: copy-on-write path writes, deletes, deep merge, and
//     flatten/expand between nested and dot-keyed form
//   - mapper: template mapping between structures with {{ path }}
//     placeholders, filter pipelines, and WHERE / ORDER BY / LIMIT /
//     OFFSET over wildcard collections
//   - dto: struct hydration with casting hooks, tag-driven validation,
//     and conditional serialization back to maps
//   - validator: composable path-addressed validation rules
//
// A typical flow reads a loosely structured document, reshapes it, and
// lands it in a typed struct:
//
//	out, err := mapper.New().Map(payload, map[string]string{
//	    "customer.name": "{{ user.profile.name | trim | title }}",
//	    "total_paid":    `{{ orders.*.total WHERE status = "paid" | sum }}`,
//	})
//
//	var c Customer
//	err = dto.Transform(out, &c)
//
// Each package stands alone; import only what you use.
package datakit
