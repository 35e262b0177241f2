package sql

import (
	"strconv"

	"github.com/syssam/boxql/dialect"
)

// arg binds a single value.
type arg struct{ v any }

func (a arg) Render(b *Builder) error {
	if f, ok := a.v.(Fragment); ok {
		return f.Render(b)
	}
	return b.Arg(a.v)
}

type binary struct {
	l  Fragment
	op string
	r  Fragment
}

func (e binary) Render(b *Builder) error {
	if err := e.l.Render(b); err != nil {
		return err
	}
	b.WriteByte(' ').WriteString(e.op).WriteByte(' ')
	return e.r.Render(b)
}

type suffix struct {
	f Fragment
	s string
}

func (e suffix) Render(b *Builder) error {
	if err := e.f.Render(b); err != nil {
		return err
	}
	b.WriteString(e.s)
	return nil
}

type inList struct {
	c   Fragment
	vs  []any
	not bool
}

func (e inList) Render(b *Builder) error {
	if len(e.vs) == 0 {
		if e.not {
			b.WriteString("1 = 1")
		} else {
			b.WriteString("1 = 0")
		}
		return nil
	}
	if err := e.c.Render(b); err != nil {
		return err
	}
	if e.not {
		b.WriteString(" NOT")
	}
	b.WriteString(" IN (")
	for i, v := range e.vs {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := b.Arg(v); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

type call struct {
	name string
	arg  Fragment
}

func (e call) Render(b *Builder) error {
	b.WriteString(e.name).WriteByte('(')
	if err := e.arg.Render(b); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

// logical joins two predicates, wrapping each in parentheses.
type logical struct {
	op   string
	l, r Fragment
}

func (e logical) Render(b *Builder) error {
	if err := b.Wrap(e.l); err != nil {
		return err
	}
	b.WriteByte(' ').WriteString(e.op).WriteByte(' ')
	return b.Wrap(e.r)
}

// And returns the conjunction "(l) AND (r)".
func And[QS any](l, r Expr[QS, Bool]) Expr[QS, Bool] {
	return expr[QS, Bool]{logical{op: "AND", l: l, r: r}}
}

// Or returns the disjunction "(l) OR (r)".
func Or[QS any](l, r Expr[QS, Bool]) Expr[QS, Bool] {
	return expr[QS, Bool]{logical{op: "OR", l: l, r: r}}
}

// Not returns the negation "NOT (p)".
func Not[QS any](p Expr[QS, Bool]) Expr[QS, Bool] {
	return expr[QS, Bool]{FragmentFunc(func(b *Builder) error {
		b.WriteString("NOT ")
		return b.Wrap(p)
	})}
}

// conjoin ANDs p onto an accumulated predicate. The accumulated predicate
// stays on the left so repeated calls associate left-deep.
func conjoin(where, p Fragment) Fragment {
	if where == nil {
		return p
	}
	return logical{op: "AND", l: where, r: p}
}

// Value returns a bound value usable wherever an expression of source QS
// and type ST is expected.
func Value[QS any, ST SQLType](v any) Expr[QS, ST] {
	return expr[QS, ST]{arg{v}}
}

// Count returns COUNT(e).
func Count[QS any, ST SQLType](e Expr[QS, ST]) Selectable[QS, BigInt] {
	return selectOnly[QS, BigInt]{call{name: "COUNT", arg: e}}
}

// CountStar returns COUNT(*) over t.
func CountStar[QS any](*Table[QS]) Selectable[QS, BigInt] {
	return selectOnly[QS, BigInt]{Raw("COUNT(*)")}
}

// Star projects every declared column of t, in declaration order. A table
// without declared columns projects "*".
func Star[QS any](t *Table[QS]) Selectable[QS, Row] {
	return expr[QS, Row]{FragmentFunc(func(b *Builder) error {
		if len(t.columns) == 0 {
			b.WriteByte('*')
			return nil
		}
		for i, c := range t.columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.Ident(t.name + "." + c.Name)
		}
		return nil
	})}
}

// Tuple2 projects two expressions.
func Tuple2[QS any, A, B SQLType](a Selectable[QS, A], b Selectable[QS, B]) Selectable[QS, Pair[A, B]] {
	return selectOnly[QS, Pair[A, B]]{list{a, b}}
}

// Tuple3 projects three expressions.
func Tuple3[QS any, A, B, C SQLType](a Selectable[QS, A], b Selectable[QS, B], c Selectable[QS, C]) Selectable[QS, Triple[A, B, C]] {
	return selectOnly[QS, Triple[A, B, C]]{list{a, b, c}}
}

// Columns projects expressions whose types are only known at runtime, such
// as columns resolved from a schema file.
func Columns[QS any](es ...Selectable[QS, Any]) Selectable[QS, Any] {
	l := make(list, len(es))
	for i, e := range es {
		l[i] = e
	}
	return selectOnly[QS, Any]{l}
}

type list []Fragment

func (l list) Render(b *Builder) error {
	return b.Join(l, ", ")
}

type nullsOrder uint8

const (
	nullsDefault nullsOrder = iota
	nullsFirst
	nullsLast
)

// OrderTerm is one term of an ORDER BY clause over source QS.
type OrderTerm[QS any] struct {
	e     Fragment
	desc  bool
	nulls nullsOrder
}

// Asc returns an ascending order term on e.
func Asc[QS any, ST SQLType](e Expr[QS, ST]) OrderTerm[QS] {
	return OrderTerm[QS]{e: e}
}

// Desc returns a descending order term on e.
func Desc[QS any, ST SQLType](e Expr[QS, ST]) OrderTerm[QS] {
	return OrderTerm[QS]{e: e, desc: true}
}

// NullsFirst sorts NULL values before the others. Not supported by MySQL.
func (o OrderTerm[QS]) NullsFirst() OrderTerm[QS] {
	o.nulls = nullsFirst
	return o
}

// NullsLast sorts NULL values after the others. Not supported by MySQL.
func (o OrderTerm[QS]) NullsLast() OrderTerm[QS] {
	o.nulls = nullsLast
	return o
}

// Render writes the term.
func (o OrderTerm[QS]) Render(b *Builder) error {
	if err := o.e.Render(b); err != nil {
		return err
	}
	if o.desc {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	switch o.nulls {
	case nullsFirst:
		if b.Dialect() == dialect.MySQL {
			return b.Unsupported("NULLS FIRST")
		}
		b.WriteString(" NULLS FIRST")
	case nullsLast:
		if b.Dialect() == dialect.MySQL {
			return b.Unsupported("NULLS LAST")
		}
		b.WriteString(" NULLS LAST")
	}
	return nil
}

type orderClause []Fragment

func (o orderClause) Render(b *Builder) error {
	if len(o) == 0 {
		return nil
	}
	b.WriteString(" ORDER BY ")
	return b.Join(o, ", ")
}

// OrderBy returns an ORDER BY clause. With no terms it renders nothing.
func OrderBy[QS any](terms ...OrderTerm[QS]) Fragment {
	o := make(orderClause, len(terms))
	for i := range terms {
		o[i] = terms[i]
	}
	return o
}

type limitClause int64

func (l limitClause) Render(b *Builder) error {
	b.limited = true
	b.WriteString(" LIMIT ").WriteString(strconv.FormatInt(int64(l), 10))
	return nil
}

// Limit returns a LIMIT clause.
func Limit(n int64) Fragment { return limitClause(n) }

type offsetClause int64

func (o offsetClause) Render(b *Builder) error {
	if !b.limited && (b.Dialect() == dialect.MySQL || b.Dialect() == dialect.SQLite) {
		return b.Unsupported("OFFSET without LIMIT")
	}
	b.WriteString(" OFFSET ").WriteString(strconv.FormatInt(int64(o), 10))
	return nil
}

// Offset returns an OFFSET clause. MySQL and SQLite require a LIMIT before it.
func Offset(n int64) Fragment { return offsetClause(n) }

// Assignment is one "column = value" entry of an UPDATE's SET list.
type Assignment[QS any] struct {
	column string
	value  any
}

// Column returns the assigned column name.
func (a Assignment[QS]) Column() string { return a.column }

// Value returns the assigned value. nil stands for NULL.
func (a Assignment[QS]) Value() any { return a.value }

// Render writes the unqualified column, " = ", and the bound value.
func (a Assignment[QS]) Render(b *Builder) error {
	b.Ident(a.column).WriteString(" = ")
	return arg{a.value}.Render(b)
}
