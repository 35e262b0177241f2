// Package schema renders and applies the DDL of declared tables.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/boxql"
	"github.com/syssam/boxql/dialect"
	"github.com/syssam/boxql/dialect/sql"
)

// Table describes a table to create.
type Table struct {
	Name    string
	Columns []*Column
}

// Column describes a column of a table. Type is a logical type name such
// as "integer" or "timestamp".
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// FromTable describes a table declared with sql.NewTable.
func FromTable[QS any](t *sql.Table[QS]) *Table {
	infos := t.Columns()
	st := &Table{Name: t.Name(), Columns: make([]*Column, len(infos))}
	for i, c := range infos {
		st.Columns[i] = &Column{
			Name:       c.Name,
			Type:       strings.TrimPrefix(c.Type, "nullable "),
			Nullable:   c.Nullable,
			PrimaryKey: c.PrimaryKey,
		}
	}
	return st
}

// PrimaryKey returns the primary-key columns.
func (t *Table) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// columnTypes maps logical types to column types, per dialect.
var columnTypes = map[string]map[string]string{
	dialect.Postgres: {
		"bool":      "BOOLEAN",
		"integer":   "INTEGER",
		"bigint":    "BIGINT",
		"float":     "DOUBLE PRECISION",
		"text":      "TEXT",
		"timestamp": "TIMESTAMP WITH TIME ZONE",
		"uuid":      "UUID",
	},
	dialect.MySQL: {
		"bool":      "BOOLEAN",
		"integer":   "INT",
		"bigint":    "BIGINT",
		"float":     "DOUBLE",
		"text":      "VARCHAR(255)",
		"timestamp": "TIMESTAMP(6)",
		"uuid":      "CHAR(36)",
	},
	dialect.SQLite: {
		"bool":      "BOOLEAN",
		"integer":   "INTEGER",
		"bigint":    "INTEGER",
		"float":     "REAL",
		"text":      "TEXT",
		"timestamp": "DATETIME",
		"uuid":      "TEXT",
	},
}

// CreateTable returns the statement
//
//	CREATE TABLE IF NOT EXISTS <name> (<column> <type> [NOT NULL], ...[, PRIMARY KEY (<pk>)])
//
// A column type without a mapping in the rendering dialect is a
// RenderError.
func CreateTable(t *Table) sql.Fragment {
	return sql.FragmentFunc(func(b *sql.Builder) error {
		b.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(t.Name).WriteString(" (")
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			typ, ok := columnTypes[b.Dialect()][c.Type]
			if !ok {
				return b.Unsupported(fmt.Sprintf("column type %q", c.Type))
			}
			b.Ident(c.Name).WriteByte(' ').WriteString(typ)
			if !c.Nullable {
				b.WriteString(" NOT NULL")
			}
		}
		if pk := t.PrimaryKey(); len(pk) > 0 {
			b.WriteString(", PRIMARY KEY (")
			for i, c := range pk {
				if i > 0 {
					b.WriteString(", ")
				}
				b.Ident(c.Name)
			}
			b.WriteByte(')')
		}
		b.WriteByte(')')
		return nil
	})
}

// Create validates the tables and creates the missing ones in a single
// transaction, rolled back on the first failure. Tables that already exist
// are left as they are.
//
// MySQL commits each CREATE TABLE implicitly, so there the tables created
// before a failing one remain. Running Create again after fixing the cause
// completes the schema.
func Create(ctx context.Context, drv dialect.Driver, tables ...*Table) error {
	if res := ValidateSchema(tables); res.HasErrors() {
		return boxql.NewValidationError("schema", errors.New(res.String()))
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("schema: starting transaction: %w", err)
	}
	for _, t := range tables {
		if _, err := sql.ExecStatement(ctx, tx, drv.Dialect(), CreateTable(t)); err != nil {
			return rollback(tx, fmt.Errorf("schema: creating table %q: %w", t.Name, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schema: committing: %w", err)
	}
	return nil
}

func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return &boxql.RollbackError{Err: errors.Join(err, rerr)}
	}
	return err
}
