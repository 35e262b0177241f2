package sql

// AssignmentLister is implemented by changesets.
type AssignmentLister[QS any] interface {
	Assignments() []Assignment[QS]
}

// UpdateStatement is an UPDATE of table QS.
type UpdateStatement[QS any] struct {
	table *Table[QS]
	set   []Fragment
	where Fragment
}

// Update returns an UPDATE statement for t with an empty SET list.
func Update[QS any](t *Table[QS]) *UpdateStatement[QS] {
	return &UpdateStatement[QS]{table: t}
}

// Set appends assignments to the SET list.
func (u *UpdateStatement[QS]) Set(as ...Assignment[QS]) *UpdateStatement[QS] {
	for i := range as {
		u.set = append(u.set, as[i])
	}
	return u
}

// SetChangeset appends the present assignments of cs to the SET list.
func (u *UpdateStatement[QS]) SetChangeset(cs AssignmentLister[QS]) *UpdateStatement[QS] {
	return u.Set(cs.Assignments()...)
}

// Where adds a predicate. Repeated calls are combined with AND.
func (u *UpdateStatement[QS]) Where(p Expr[QS, Bool]) *UpdateStatement[QS] {
	u.where = conjoin(u.where, p)
	return u
}

// Table returns the updated table.
func (u *UpdateStatement[QS]) Table() *Table[QS] { return u.table }

// IsNoop reports whether the SET list is empty. Such a statement has no SQL
// form; executors treat it as an update of zero rows.
func (u *UpdateStatement[QS]) IsNoop() bool { return len(u.set) == 0 }

// Render writes "UPDATE <table> SET a = ?, b = ?[ WHERE <where>]".
func (u *UpdateStatement[QS]) Render(b *Builder) error {
	if u.IsNoop() {
		return b.Unsupported("UPDATE with empty SET list")
	}
	b.WriteString("UPDATE ")
	if err := u.table.Render(b); err != nil {
		return err
	}
	b.WriteString(" SET ")
	if err := b.Join(u.set, ", "); err != nil {
		return err
	}
	if u.where != nil {
		b.WriteString(" WHERE ")
		return u.where.Render(b)
	}
	return nil
}

// Query renders the statement for dialect d.
func (u *UpdateStatement[QS]) Query(d string, opts ...Option) (string, []any, error) {
	return Render(d, u, opts...)
}
