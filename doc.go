// Package boxql composes SQL statements from typed fragments.
//
// A statement is built from fragments that render themselves into a shared
// [sql.Builder]. Every fragment and every column carries a logical SQL type
// tag and the marker type of the table it belongs to as generic parameters,
// so an ill-typed composition (a text column compared to an integer, a
// predicate of another table, an aggregate in a row filter) does not compile.
//
// # Boxed statements
//
// Once a query has to be shaped at runtime, it is boxed:
//
//	q := sql.From(Users)
//	if name != "" {
//	    q.Filter(UserName.EQ(name))
//	}
//	if onlyActive {
//	    q.Filter(UserActive.EQ(true))
//	}
//	query, args, err := q.Query(dialect.Postgres)
//
// Successive Filter calls are combined with AND, left to right.
//
// # Changesets
//
// A record maps itself to an ordered list of column assignments with
// [changeset.Derive]. Optional fields are skipped when absent unless the
// record's policy treats absent values as NULL:
//
//	func (u *User) AsChangeset() changeset.Changeset[users] {
//	    return changeset.Derive(changeset.Policy{},
//	        changeset.Required(UserName, u.Name),
//	        changeset.Optional(UserEmail, u.Email),
//	    )
//	}
//
// The root package holds the error types shared by the sub-packages.
//
// [sql.Builder]: https://pkg.go.dev/github.com/syssam/boxql/dialect/sql#Builder
// [changeset.Derive]: https://pkg.go.dev/github.com/syssam/boxql/dialect/sql/changeset#Derive
package boxql
