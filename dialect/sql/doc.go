// Package sql provides typed SQL fragments, boxed statements and the
// database/sql based driver that executes them.
//
// Every piece of a statement is a Fragment: it renders its text and bound
// arguments into a Builder for one dialect (PostgreSQL, MySQL, SQLite).
// Typed fragments carry two phantom type parameters, the table they read
// from (QS) and their logical SQL type (ST), so a predicate over one table
// cannot filter another, and an aggregate cannot appear in a WHERE clause.
//
// # Tables and columns
//
//	type users struct{}
//
//	var (
//	    Users    = sql.NewTable[users]("users")
//	    UserID   = sql.IntegerColumn(Users, "id", sql.PrimaryKey())
//	    UserName = sql.TextColumn(Users, "name")
//	)
//
// # Boxed statements
//
// A BoxedSelect erases its clauses to fragments, so filters can be added
// conditionally at runtime:
//
//	q := sql.From(Users)
//	if name != "" {
//	    q.Filter(UserName.EQ(name))
//	}
//	q.Filter(UserID.GT(10))
//	query, args, err := q.Query(dialect.Postgres)
//	// SELECT "users"."id", "users"."name" FROM "users"
//	//   WHERE ("users"."name" = $1) AND ("users"."id" > $2)
//
// Select swaps the projection and consumes the statement it was given:
//
//	names := sql.Select[sql.Text](q, UserName)
//
// # Updates
//
//	sql.Update(Users).Set(UserName.Set("Ann")).Where(UserID.EQ(1))
//
// An UPDATE without assignments has no SQL form. Rendering it returns a
// *boxql.RenderError; executors check IsNoop first.
//
// # Rendering errors
//
// Constructs a dialect cannot express (ILIKE outside PostgreSQL, NULLS
// FIRST on MySQL, OFFSET without LIMIT on MySQL and SQLite) fail rendering
// with a *boxql.RenderError instead of producing invalid SQL.
package sql
