package sql

import "fmt"

// ColumnInfo describes a declared column.
type ColumnInfo struct {
	Name       string
	Type       string // Tag name, see TypeName
	Nullable   bool
	PrimaryKey bool
}

// Table is a query source. QS is a marker type identifying the table at
// compile time; columns declared on the table carry it, so an expression
// built from another table's columns cannot filter this one.
//
//	type users struct{}
//
//	var (
//	    Users     = sql.NewTable[users]("users")
//	    UserID    = sql.IntegerColumn(Users, "id", sql.PrimaryKey())
//	    UserEmail = sql.NullableTextColumn(Users, "email")
//	)
type Table[QS any] struct {
	name    string
	columns []ColumnInfo
}

// NewTable returns a table with the given name and no columns.
func NewTable[QS any](name string) *Table[QS] {
	return &Table[QS]{name: name}
}

// Name returns the table name.
func (t *Table[QS]) Name() string { return t.name }

// Columns returns the declared columns in declaration order.
func (t *Table[QS]) Columns() []ColumnInfo {
	return append([]ColumnInfo(nil), t.columns...)
}

// Column returns the declared column with the given name.
func (t *Table[QS]) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// PrimaryKey returns the primary-key column, if one was declared.
func (t *Table[QS]) PrimaryKey() (ColumnInfo, bool) {
	for _, c := range t.columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Render writes the table as a FROM source.
func (t *Table[QS]) Render(b *Builder) error {
	b.Ident(t.name)
	return nil
}

func (t *Table[QS]) declare(c ColumnInfo) {
	if _, ok := t.Column(c.Name); ok {
		panic(fmt.Sprintf("sql: column %q declared twice on table %q", c.Name, t.name))
	}
	t.columns = append(t.columns, c)
}

// ColumnOption configures a declared column.
type ColumnOption func(*ColumnInfo)

// PrimaryKey marks the column as the table's primary key.
func PrimaryKey() ColumnOption {
	return func(c *ColumnInfo) {
		c.PrimaryKey = true
	}
}
