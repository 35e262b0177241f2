package sql

// Fragment is a composable piece of a statement. Render writes its SQL text
// and bound arguments into b. The only error a fragment returns is a
// *boxql.RenderError, when the construct has no form in b's dialect.
//
// Fragments are immutable once constructed and exclusively own their
// children.
type Fragment interface {
	Render(b *Builder) error
}

// FragmentFunc adapts a function to the Fragment interface.
type FragmentFunc func(*Builder) error

// Render calls f(b).
func (f FragmentFunc) Render(b *Builder) error {
	return f(b)
}

// Raw returns a fragment writing s verbatim.
func Raw(s string) Fragment {
	return FragmentFunc(func(b *Builder) error {
		b.WriteString(s)
		return nil
	})
}

// empty renders nothing. Used for unset clauses so a statement always has
// a fragment in every slot.
type empty struct{}

func (empty) Render(*Builder) error { return nil }

// Empty returns a fragment that renders nothing.
func Empty() Fragment { return empty{} }

// Render renders f for dialect d and returns the SQL text and arguments.
func Render(d string, f Fragment, opts ...Option) (string, []any, error) {
	b := NewBuilder(d, opts...)
	if err := f.Render(b); err != nil {
		return "", nil, err
	}
	query, args := b.Query()
	return query, args, nil
}
