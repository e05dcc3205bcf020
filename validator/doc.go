// Package validator validates values inside nested data structures using
// composable rules addressed by dotted paths.
//
// Rules are cheap closures; Apply executes them and aggregates failures
// into a ValidationErrors value that callers can inspect per path:
//
//	err := validator.Apply(
//	    validator.Required(data, "user.email"),
//	    validator.Email(data, "user.email"),
//	    validator.Min(data, "user.age", 18),
//	)
//	if verrs := validator.Extract(err); verrs != nil {
//	    for _, msg := range verrs.Get("user.email") {
//	        // ...
//	    }
//	}
//
// Apart from Required, rules pass when the path does not resolve: absence
// is Required's concern, validity everyone else's. Collections are covered
// by Each, which expands a wildcard path into per-element rules:
//
//	rules := validator.Each(data, "orders.*", func(path string, _ any) []validator.Rule {
//	    return []validator.Rule{validator.Required(data, path+".id")}
//	})
//	err := validator.Apply(rules...)
//
// The dto package drives this engine from `validate` struct tags.
package validator
