package sql

import (
	"time"

	"github.com/google/uuid"

	"github.com/syssam/boxql/dialect"
)

// Column is a typed reference to a column of table QS. ST is the logical SQL
// type of the column and V the Go type of the values bound against it.
//
// Usage:
//
//	var UserName = sql.TextColumn(Users, "name")
//	q.Filter(UserName.EQ("Ann"))
type Column[QS any, ST SQLType, V any] struct {
	table string
	name  string
}

// NewColumn declares a column on t and returns a typed reference to it.
func NewColumn[ST SQLType, V any, QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, ST, V] {
	info := ColumnInfo{Name: name, Type: TypeName[ST](), Nullable: IsNullable[ST]()}
	for _, opt := range opts {
		opt(&info)
	}
	t.declare(info)
	return Column[QS, ST, V]{table: t.name, name: name}
}

// Column constructors for the common logical types.

// IntegerColumn declares an integer column.
func IntegerColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Integer, int64] {
	return NewColumn[Integer, int64](t, name, opts...)
}

// BigIntColumn declares a bigint column.
func BigIntColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, BigInt, int64] {
	return NewColumn[BigInt, int64](t, name, opts...)
}

// TextColumn declares a text column.
func TextColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Text, string] {
	return NewColumn[Text, string](t, name, opts...)
}

// BoolColumn declares a boolean column.
func BoolColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Bool, bool] {
	return NewColumn[Bool, bool](t, name, opts...)
}

// FloatColumn declares a float column.
func FloatColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Float, float64] {
	return NewColumn[Float, float64](t, name, opts...)
}

// TimestampColumn declares a timestamp column.
func TimestampColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Timestamp, time.Time] {
	return NewColumn[Timestamp, time.Time](t, name, opts...)
}

// UUIDColumn declares a uuid column.
func UUIDColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, UUID, uuid.UUID] {
	return NewColumn[UUID, uuid.UUID](t, name, opts...)
}

// NullableIntegerColumn declares a nullable integer column.
func NullableIntegerColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[Integer], int64] {
	return NewColumn[Nullable[Integer], int64](t, name, opts...)
}

// NullableBigIntColumn declares a nullable bigint column.
func NullableBigIntColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[BigInt], int64] {
	return NewColumn[Nullable[BigInt], int64](t, name, opts...)
}

// NullableTextColumn declares a nullable text column.
func NullableTextColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[Text], string] {
	return NewColumn[Nullable[Text], string](t, name, opts...)
}

// NullableBoolColumn declares a nullable boolean column.
func NullableBoolColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[Bool], bool] {
	return NewColumn[Nullable[Bool], bool](t, name, opts...)
}

// NullableFloatColumn declares a nullable float column.
func NullableFloatColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[Float], float64] {
	return NewColumn[Nullable[Float], float64](t, name, opts...)
}

// NullableTimestampColumn declares a nullable timestamp column.
func NullableTimestampColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[Timestamp], time.Time] {
	return NewColumn[Nullable[Timestamp], time.Time](t, name, opts...)
}

// NullableUUIDColumn declares a nullable uuid column.
func NullableUUIDColumn[QS any](t *Table[QS], name string, opts ...ColumnOption) Column[QS, Nullable[UUID], uuid.UUID] {
	return NewColumn[Nullable[UUID], uuid.UUID](t, name, opts...)
}

// Name returns the column name.
func (c Column[QS, ST, V]) Name() string { return c.name }

// Table returns the name of the table the column belongs to.
func (c Column[QS, ST, V]) Table() string { return c.table }

// Render writes the table-qualified column name.
func (c Column[QS, ST, V]) Render(b *Builder) error {
	b.Ident(c.table + "." + c.name)
	return nil
}

func (Column[QS, ST, V]) selectable(QS, ST) {}
func (Column[QS, ST, V]) nonAggregate()     {}

// EQ returns a predicate that checks if the column equals the given value.
func (c Column[QS, ST, V]) EQ(v V) Expr[QS, Bool] {
	return compare[QS](c, "=", v)
}

// NEQ returns a predicate that checks if the column does not equal the given value.
func (c Column[QS, ST, V]) NEQ(v V) Expr[QS, Bool] {
	return compare[QS](c, "<>", v)
}

// GT returns a predicate that checks if the column is greater than the given value.
func (c Column[QS, ST, V]) GT(v V) Expr[QS, Bool] {
	return compare[QS](c, ">", v)
}

// GTE returns a predicate that checks if the column is greater than or equal to the given value.
func (c Column[QS, ST, V]) GTE(v V) Expr[QS, Bool] {
	return compare[QS](c, ">=", v)
}

// LT returns a predicate that checks if the column is less than the given value.
func (c Column[QS, ST, V]) LT(v V) Expr[QS, Bool] {
	return compare[QS](c, "<", v)
}

// LTE returns a predicate that checks if the column is less than or equal to the given value.
func (c Column[QS, ST, V]) LTE(v V) Expr[QS, Bool] {
	return compare[QS](c, "<=", v)
}

// In returns a predicate that checks if the column value is in the given list.
// An empty list matches no row.
func (c Column[QS, ST, V]) In(vs ...V) Expr[QS, Bool] {
	return expr[QS, Bool]{inList{c: c, vs: boxValues(vs), not: false}}
}

// NotIn returns a predicate that checks if the column value is not in the given list.
// An empty list matches every row.
func (c Column[QS, ST, V]) NotIn(vs ...V) Expr[QS, Bool] {
	return expr[QS, Bool]{inList{c: c, vs: boxValues(vs), not: true}}
}

// IsNull returns a predicate that checks if the column is NULL.
func (c Column[QS, ST, V]) IsNull() Expr[QS, Bool] {
	return expr[QS, Bool]{suffix{c, " IS NULL"}}
}

// NotNull returns a predicate that checks if the column is not NULL.
func (c Column[QS, ST, V]) NotNull() Expr[QS, Bool] {
	return expr[QS, Bool]{suffix{c, " IS NOT NULL"}}
}

// EQColumn returns a predicate that checks if the column equals another
// expression of the same source and type.
func (c Column[QS, ST, V]) EQColumn(o Expr[QS, ST]) Expr[QS, Bool] {
	return expr[QS, Bool]{binary{l: c, op: "=", r: o}}
}

// Asc returns an ascending order term on the column.
func (c Column[QS, ST, V]) Asc() OrderTerm[QS] {
	return OrderTerm[QS]{e: c}
}

// Desc returns a descending order term on the column.
func (c Column[QS, ST, V]) Desc() OrderTerm[QS] {
	return OrderTerm[QS]{e: c, desc: true}
}

// Count returns COUNT(column).
func (c Column[QS, ST, V]) Count() Selectable[QS, BigInt] {
	return selectOnly[QS, BigInt]{call{name: "COUNT", arg: c}}
}

// Max returns MAX(column).
func (c Column[QS, ST, V]) Max() Selectable[QS, ST] {
	return selectOnly[QS, ST]{call{name: "MAX", arg: c}}
}

// Min returns MIN(column).
func (c Column[QS, ST, V]) Min() Selectable[QS, ST] {
	return selectOnly[QS, ST]{call{name: "MIN", arg: c}}
}

// Set returns the assignment "column = v".
func (c Column[QS, ST, V]) Set(v V) Assignment[QS] {
	return Assignment[QS]{column: c.name, value: v}
}

// SetNull returns the assignment "column = NULL".
func (c Column[QS, ST, V]) SetNull() Assignment[QS] {
	return Assignment[QS]{column: c.name}
}

// SetExpr returns the assignment "column = e".
func (c Column[QS, ST, V]) SetExpr(e Expr[QS, ST]) Assignment[QS] {
	return Assignment[QS]{column: c.name, value: e}
}

// Like returns a predicate matching the column against a LIKE pattern.
func Like[QS any, ST Textual, V any](c Column[QS, ST, V], pattern string) Expr[QS, Bool] {
	return compare[QS](c, "LIKE", pattern)
}

// ILike returns a case-insensitive LIKE predicate. Only Postgres supports it.
func ILike[QS any, ST Textual, V any](c Column[QS, ST, V], pattern string) Expr[QS, Bool] {
	return expr[QS, Bool]{FragmentFunc(func(b *Builder) error {
		if b.Dialect() != dialect.Postgres {
			return b.Unsupported("ILIKE")
		}
		return binary{l: c, op: "ILIKE", r: arg{pattern}}.Render(b)
	})}
}

func compare[QS any](l Fragment, op string, v any) Expr[QS, Bool] {
	return expr[QS, Bool]{binary{l: l, op: op, r: arg{v}}}
}

func boxValues[V any](vs []V) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}
