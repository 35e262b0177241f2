package sql

// BoxedSelect is a SELECT statement whose clauses have been erased to
// fragments, so it can be extended at runtime without naming the static type
// of every intermediate state. ST is the logical type of the projection and
// QS the marker of the table it reads from.
//
// The statement owns its fragments. Select consumes the statement it is
// given; Filter, OrderBy, Limit and Offset mutate it in place. A BoxedSelect
// is built and rendered by a single goroutine.
type BoxedSelect[ST SQLType, QS any] struct {
	selection Fragment
	from      *Table[QS]
	where     Fragment // nil: no WHERE clause
	order     Fragment
	limit     Fragment
	offset    Fragment
}

// NewBoxedSelect assembles a boxed statement from already erased clauses.
// The clauses are trusted to be well-typed for ST and QS. A nil order, limit
// or offset is stored as an empty fragment; a nil where means no filter.
func NewBoxedSelect[ST SQLType, QS any](selection Fragment, from *Table[QS], where, order, limit, offset Fragment) *BoxedSelect[ST, QS] {
	return &BoxedSelect[ST, QS]{
		selection: selection,
		from:      from,
		where:     where,
		order:     orEmpty(order),
		limit:     orEmpty(limit),
		offset:    orEmpty(offset),
	}
}

// From returns a boxed statement projecting every declared column of t.
func From[QS any](t *Table[QS]) *BoxedSelect[Row, QS] {
	return NewBoxedSelect[Row](Star(t), t, nil, nil, nil, nil)
}

// Select replaces the projection of s with selection and returns the new
// statement, typed by the selection. s is consumed and must not be used
// afterwards.
func Select[NT, ST SQLType, QS any](s *BoxedSelect[ST, QS], selection Selectable[QS, NT]) *BoxedSelect[NT, QS] {
	next := NewBoxedSelect[NT](selection, s.from, s.where, s.order, s.limit, s.offset)
	*s = BoxedSelect[ST, QS]{}
	return next
}

// Filter adds a row predicate. The first call sets the WHERE clause; each
// later call ANDs the predicate onto the accumulated one, which stays on
// the left.
func (s *BoxedSelect[ST, QS]) Filter(p Expr[QS, Bool]) *BoxedSelect[ST, QS] {
	s.where = conjoin(s.where, p)
	return s
}

// OrderBy replaces the ORDER BY clause.
func (s *BoxedSelect[ST, QS]) OrderBy(terms ...OrderTerm[QS]) *BoxedSelect[ST, QS] {
	s.order = OrderBy(terms...)
	return s
}

// Limit replaces the LIMIT clause.
func (s *BoxedSelect[ST, QS]) Limit(n int64) *BoxedSelect[ST, QS] {
	s.limit = Limit(n)
	return s
}

// Offset replaces the OFFSET clause.
func (s *BoxedSelect[ST, QS]) Offset(n int64) *BoxedSelect[ST, QS] {
	s.offset = Offset(n)
	return s
}

// Table returns the table the statement reads from.
func (s *BoxedSelect[ST, QS]) Table() *Table[QS] { return s.from }

// HasWhere reports whether a predicate was added.
func (s *BoxedSelect[ST, QS]) HasWhere() bool { return s.where != nil }

// Render writes
//
//	SELECT <selection> FROM <from>[ WHERE <where>]<order><limit><offset>
//
// and returns the first error of a clause, in that order.
func (s *BoxedSelect[ST, QS]) Render(b *Builder) error {
	if s.from == nil || s.selection == nil {
		return b.Unsupported("SELECT of a consumed statement")
	}
	b.WriteString("SELECT ")
	if err := s.selection.Render(b); err != nil {
		return err
	}
	b.WriteString(" FROM ")
	if err := s.from.Render(b); err != nil {
		return err
	}
	if s.where != nil {
		b.WriteString(" WHERE ")
		if err := s.where.Render(b); err != nil {
			return err
		}
	}
	for _, f := range []Fragment{s.order, s.limit, s.offset} {
		if err := f.Render(b); err != nil {
			return err
		}
	}
	return nil
}

// Query renders the statement for dialect d.
func (s *BoxedSelect[ST, QS]) Query(d string, opts ...Option) (string, []any, error) {
	return Render(d, s, opts...)
}

func orEmpty(f Fragment) Fragment {
	if f == nil {
		return Empty()
	}
	return f
}
