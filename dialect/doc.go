// Package dialect names the database backends boxql renders for and defines
// the execution contracts rendered statements are handed to.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The dialect decides identifier quoting, placeholder syntax and which
// constructs can be rendered at all. A construct a dialect cannot express is
// reported as a *boxql.RenderError by the fragment that owns it.
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface adds Commit and Rollback. dialect/sql provides the
// database/sql backed implementation:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: fragments, boxed statements, UPDATE rendering and the driver
//   - dialect/sql/changeset: record to SET-list derivation
//   - dialect/sql/sqlgraph: statement execution and save-and-reload
//   - dialect/sql/schema: CREATE TABLE rendering and table creation
package dialect
