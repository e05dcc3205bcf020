// Package dto moves data between nested maps and plain Go structs: the
// hydration, validation and serialization layer that sits on top of the
// accessor and mapper packages.
//
// Hydration decodes a map into a struct using `dto` tags, with weak typing
// and decode hooks for time.Time (RFC 3339 or date-only), time.Duration and
// uuid.UUID:
//
//	type User struct {
//	    ID       uuid.UUID `dto:"id"`
//	    Name     string    `dto:"name" validate:"required,min=2"`
//	    Email    string    `dto:"email" validate:"required,email"`
//	    JoinedAt time.Time `dto:"joined_at"`
//	}
//
//	var u User
//	err := dto.Transform(data, &u) // Hydrate + Validate
//
// FromPath hydrates from a branch of a larger document:
//
//	err := dto.FromPath(payload, "data.user", &u)
//
// Serialization turns a struct back into a map, honoring `dto` tag options
// (falling back to the `json` tag for names):
//
//   - `dto:"-"` drops the field
//   - omitempty drops zero values
//   - omitnil drops nil pointers, slices and maps but keeps zero values
//   - group=<name> includes the field only when ToMap runs WithGroups(name)
//
//	out, err := dto.ToMap(u, dto.WithGroups("admin"))
//
// Validation failures are validator.ValidationErrors keyed by the dotted
// field path, so nested and slice fields report precise locations.
package dto
