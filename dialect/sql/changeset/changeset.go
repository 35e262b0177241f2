// Package changeset turns records into the SET list of an UPDATE.
//
// A changeset is an ordered list of entries, one per mutable field of a
// record, in field declaration order. An entry either assigns a value to its
// column or is absent, meaning the column is left untouched. Whether an
// unset optional field is absent or assigns NULL is decided by the Policy.
//
// Record types implement the mapping by hand or through the code generator:
//
//	func (u *User) AsChangeset() changeset.Changeset[users] {
//	    return changeset.Derive(changeset.Policy{},
//	        changeset.Required(UserName, u.Name),
//	        changeset.Optional(UserEmail, u.Email),
//	    )
//	}
package changeset

import (
	"github.com/syssam/boxql/dialect/sql"
)

// Policy controls how unset optional fields are treated.
type Policy struct {
	// TreatNoneAsNull makes an unset optional field assign NULL to its
	// column instead of leaving the column untouched.
	TreatNoneAsNull bool
}

// Entry is one field of a changeset. A nil Assignment means the column is
// left untouched.
type Entry[QS any] struct {
	Column     string
	Assignment *sql.Assignment[QS]
}

// Present reports whether the entry assigns its column.
func (e Entry[QS]) Present() bool { return e.Assignment != nil }

// Field describes one mutable field of a record. It holds a copy of the
// field value taken when the descriptor was built.
type Field[QS any] struct {
	column   string
	set      sql.Assignment[QS]
	optional bool
	present  bool
}

// Required describes a field that always assigns v to column c.
func Required[QS any, ST sql.SQLType, V any](c sql.Column[QS, ST, V], v V) Field[QS] {
	return Field[QS]{column: c.Name(), set: c.Set(v), present: true}
}

// Optional describes a field whose value may be unset. A nil v is unset; an
// unset field is skipped or assigns NULL depending on the Policy.
func Optional[QS any, ST sql.SQLType, V any](c sql.Column[QS, ST, V], v *V) Field[QS] {
	if v == nil {
		return Field[QS]{column: c.Name(), set: c.SetNull(), optional: true}
	}
	return Field[QS]{column: c.Name(), set: c.Set(*v), optional: true, present: true}
}

// Nullable describes a field that always assigns column c: v, or NULL when v
// is nil. The Policy does not apply to it.
func Nullable[QS any, ST sql.SQLType, V any](c sql.Column[QS, ST, V], v *V) Field[QS] {
	if v == nil {
		return Field[QS]{column: c.Name(), set: c.SetNull(), present: true}
	}
	return Field[QS]{column: c.Name(), set: c.Set(*v), present: true}
}

// Column returns the column the field maps to.
func (f Field[QS]) Column() string { return f.column }

// Changeset is the ordered result of deriving a record.
type Changeset[QS any] struct {
	entries []Entry[QS]
}

// Derive builds the changeset of fields under policy p. Entries follow the
// order of fields.
//
// An optional field that is unset yields an absent entry unless
// p.TreatNoneAsNull is set, in which case it assigns NULL. Every other field
// yields an assignment of its value. A changeset without assignments is
// valid; executing it is a no-op.
func Derive[QS any](p Policy, fields ...Field[QS]) Changeset[QS] {
	entries := make([]Entry[QS], len(fields))
	for i, f := range fields {
		entries[i].Column = f.column
		if f.optional && !f.present && !p.TreatNoneAsNull {
			continue
		}
		set := f.set
		entries[i].Assignment = &set
	}
	return Changeset[QS]{entries: entries}
}

// Entries returns all entries, absent ones included.
func (c Changeset[QS]) Entries() []Entry[QS] {
	return append([]Entry[QS](nil), c.entries...)
}

// Assignments returns the assignments of the present entries, in order.
func (c Changeset[QS]) Assignments() []sql.Assignment[QS] {
	as := make([]sql.Assignment[QS], 0, len(c.entries))
	for _, e := range c.entries {
		if e.Assignment != nil {
			as = append(as, *e.Assignment)
		}
	}
	return as
}

// Columns returns the names of the assigned columns, in order.
func (c Changeset[QS]) Columns() []string {
	cols := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Assignment != nil {
			cols = append(cols, e.Column)
		}
	}
	return cols
}

// IsEmpty reports whether the changeset assigns no column.
func (c Changeset[QS]) IsEmpty() bool {
	for _, e := range c.entries {
		if e.Assignment != nil {
			return false
		}
	}
	return true
}

// Len returns the number of entries, absent ones included.
func (c Changeset[QS]) Len() int { return len(c.entries) }

// Record is implemented by types that map onto a row of table QS.
type Record[QS any] interface {
	AsChangeset() Changeset[QS]
}

// Identifiable is a Record with a primary key. Only records declaring a
// primary-key field implement it, so saving a record without one does not
// compile.
type Identifiable[QS any, K any] interface {
	Record[QS]
	PrimaryKey() K
}

// Update returns an UPDATE of t assigning the present entries of c.
func Update[QS any](t *sql.Table[QS], c Changeset[QS]) *sql.UpdateStatement[QS] {
	return sql.Update(t).SetChangeset(c)
}
