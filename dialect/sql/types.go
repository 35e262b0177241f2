package sql

// SQLType is implemented by the logical SQL type tags. Tags are zero-size
// and only ever appear as type arguments: they let the compiler reject a
// composition of incompatible fragments and cost nothing at runtime.
//
// The set is closed; only this package declares tags.
type SQLType interface {
	sqlType() string
}

// Logical SQL type tags.
type (
	Bool      struct{}
	Integer   struct{}
	BigInt    struct{}
	Float     struct{}
	Text      struct{}
	Timestamp struct{}
	UUID      struct{}
	// Row is the type of a whole-row projection.
	Row struct{}
	// Any is the type of expressions whose type is only known at runtime,
	// such as columns resolved from a schema file.
	Any struct{}
)

func (Bool) sqlType() string      { return "bool" }
func (Integer) sqlType() string   { return "integer" }
func (BigInt) sqlType() string    { return "bigint" }
func (Float) sqlType() string     { return "float" }
func (Text) sqlType() string      { return "text" }
func (Timestamp) sqlType() string { return "timestamp" }
func (UUID) sqlType() string      { return "uuid" }
func (Row) sqlType() string       { return "row" }
func (Any) sqlType() string       { return "any" }

// Nullable marks T as accepting NULL.
type Nullable[T SQLType] struct{}

func (Nullable[T]) sqlType() string {
	var t T
	return "nullable " + t.sqlType()
}

func (Nullable[T]) nullable() {}

// Pair is the type of a two-expression projection.
type Pair[A, B SQLType] struct{}

func (Pair[A, B]) sqlType() string {
	var (
		a A
		b B
	)
	return "(" + a.sqlType() + ", " + b.sqlType() + ")"
}

// Triple is the type of a three-expression projection.
type Triple[A, B, C SQLType] struct{}

func (Triple[A, B, C]) sqlType() string {
	var (
		a A
		b B
		c C
	)
	return "(" + a.sqlType() + ", " + b.sqlType() + ", " + c.sqlType() + ")"
}

// Textual is satisfied by the text tags and by Any, whose columns are
// checked by the database instead.
type Textual interface {
	Text | Nullable[Text] | Any
	SQLType
}

// TypeName returns the name of the tag ST, e.g. "nullable text".
func TypeName[ST SQLType]() string {
	var t ST
	return t.sqlType()
}

// IsNullable reports whether ST is a Nullable tag.
func IsNullable[ST SQLType]() bool {
	var t ST
	_, ok := any(t).(interface{ nullable() })
	return ok
}

// Selectable is a fragment that can appear in the projection of a statement
// reading from QS, and that produces values of logical type ST.
type Selectable[QS any, ST SQLType] interface {
	Fragment
	selectable(QS, ST)
}

// Expr is a Selectable that is evaluated per row. Only an Expr can filter
// rows; aggregates are Selectable but not Expr.
type Expr[QS any, ST SQLType] interface {
	Selectable[QS, ST]
	nonAggregate()
}

type expr[QS any, ST SQLType] struct{ Fragment }

func (expr[QS, ST]) selectable(QS, ST) {}
func (expr[QS, ST]) nonAggregate()     {}

type selectOnly[QS any, ST SQLType] struct{ Fragment }

func (selectOnly[QS, ST]) selectable(QS, ST) {}

// Typed attaches the source and type tags to an untyped fragment. The caller
// vouches for both; nothing is checked.
func Typed[QS any, ST SQLType](f Fragment) Expr[QS, ST] {
	return expr[QS, ST]{f}
}
