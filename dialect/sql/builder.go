package sql

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/boxql"
	"github.com/syssam/boxql/dialect"
)

// Builder is the output buffer fragments render into. It accumulates the SQL
// text and the ordered list of bound arguments for a single dialect.
//
// A Builder is not safe for concurrent use. Each rendering uses its own.
type Builder struct {
	sb      strings.Builder
	args    []any
	dialect string
	inline  bool
	limited bool // a LIMIT clause was written
}

// Option configures a Builder.
type Option func(*Builder)

// Inline makes the builder write arguments as SQL literals instead of
// placeholders. Intended for logging and display, never for execution.
func Inline() Option {
	return func(b *Builder) {
		b.inline = true
	}
}

// NewBuilder returns a Builder for the given dialect.
func NewBuilder(d string, opts ...Option) *Builder {
	b := &Builder{dialect: d}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dialect returns the dialect of the builder.
func (b *Builder) Dialect() string { return b.dialect }

// WriteString appends s to the SQL text.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// WriteByte appends c to the SQL text.
func (b *Builder) WriteByte(c byte) *Builder {
	b.sb.WriteByte(c)
	return b
}

// Ident writes a quoted identifier. Dotted names are quoted per part.
func (b *Builder) Ident(name string) *Builder {
	if name == "*" {
		return b.WriteByte('*')
	}
	q := byte('"')
	if b.dialect == dialect.MySQL {
		q = '`'
	}
	for i, part := range strings.Split(name, ".") {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteByte(q)
		b.sb.WriteString(strings.ReplaceAll(part, string(q), string([]byte{q, q})))
		b.WriteByte(q)
	}
	return b
}

// Arg writes a placeholder for v and records it as a bound argument. In
// inline mode v is written as a literal; a value without a literal form
// returns a RenderError.
func (b *Builder) Arg(v any) error {
	if b.inline {
		return b.literal(v)
	}
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.WriteByte('$')
		b.sb.WriteString(strconv.Itoa(len(b.args)))
		return nil
	}
	b.WriteByte('?')
	return nil
}

// Join renders fragments separated by sep, stopping at the first error.
func (b *Builder) Join(fs []Fragment, sep string) error {
	for i, f := range fs {
		if i > 0 {
			b.WriteString(sep)
		}
		if err := f.Render(b); err != nil {
			return err
		}
	}
	return nil
}

// Wrap renders f surrounded by parentheses.
func (b *Builder) Wrap(f Fragment) error {
	b.WriteByte('(')
	if err := f.Render(b); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

// Unsupported returns a RenderError for construct in the builder's dialect.
func (b *Builder) Unsupported(construct string) error {
	return boxql.NewRenderError(b.dialect, construct)
}

// Query returns the SQL text and the bound arguments.
func (b *Builder) Query() (string, []any) {
	return b.sb.String(), b.args
}

// String returns the SQL text.
func (b *Builder) String() string {
	return b.sb.String()
}

// Args returns the bound arguments.
func (b *Builder) Args() []any {
	return b.args
}

func (b *Builder) literal(v any) error {
	switch v := v.(type) {
	case nil:
		b.WriteString("NULL")
	case string:
		if b.dialect != dialect.MySQL {
			v = strings.ReplaceAll(v, "'", "''")
		} else {
			v = escapeStringValue(v)
		}
		b.WriteByte('\'').WriteString(v).WriteByte('\'')
	case bool:
		switch {
		case b.dialect == dialect.SQLite && v:
			b.WriteByte('1')
		case b.dialect == dialect.SQLite:
			b.WriteByte('0')
		case v:
			b.WriteString("TRUE")
		default:
			b.WriteString("FALSE")
		}
	case int:
		b.WriteString(strconv.Itoa(v))
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return b.Unsupported(fmt.Sprintf("float literal %v", v))
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case time.Time:
		b.WriteByte('\'').WriteString(v.UTC().Format(time.RFC3339Nano)).WriteByte('\'')
	case uuid.UUID:
		b.WriteByte('\'').WriteString(v.String()).WriteByte('\'')
	default:
		return b.Unsupported(fmt.Sprintf("literal of type %T", v))
	}
	return nil
}

// escapeStringValue escapes a string value for safe use in SQL.
// It escapes both single quotes (by doubling) and backslashes (for MySQL compatibility).
func escapeStringValue(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}
