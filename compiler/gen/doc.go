// Package gen generates the Go declarations of a boxql schema.
//
// For every table of a schema loaded by package load, the generator writes
// one file holding:
//
//   - an unexported marker type identifying the table at compile time,
//   - the table variable (sql.NewTable),
//   - one typed column variable per column,
//   - for each record mapped onto the table, a struct, its AsChangeset
//     method and, when the table has a primary key, its PrimaryKey method.
//
// Optional fields become pointer fields and changeset.Optional entries, so
// an unset field is skipped or written as NULL depending on the record's
// treat_none_as_null policy.
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./models"),
//	    gen.WithWorkers(4),
//	)
//
// # Error Handling
//
//   - SchemaError: identifiers that would collide in the generated package
//   - ConfigError: invalid or missing configuration
//   - GenerationError: a file failed to render, format or write
//
// Each matches its sentinel (ErrInvalidSchema, ErrMissingConfig,
// ErrGenerationFailed) with errors.Is.
package gen
