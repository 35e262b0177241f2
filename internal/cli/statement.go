package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/syssam/boxql/compiler/load"
	"github.com/syssam/boxql/dialect"
	"github.com/syssam/boxql/dialect/sql"
)

// dynamic marks tables resolved from a schema file at runtime.
type dynamic struct{}

type column = sql.Column[dynamic, sql.Any, any]

// StatementOptions holds the flags describing a SELECT statement.
type StatementOptions struct {
	Schema  string
	Table   string
	Dialect string
	Select  []string
	Where   []string
	Order   []string
	Limit   int64
	Offset  int64
}

func (o *StatementOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Schema, "schema", "s", "schema.yaml", "path of the schema file")
	cmd.Flags().StringVarP(&o.Table, "table", "t", "", "table to select from")
	cmd.Flags().StringVarP(&o.Dialect, "dialect", "d", dialect.Postgres, "SQL dialect (postgres|mysql|sqlite)")
	cmd.Flags().StringSliceVar(&o.Select, "select", nil, "columns to project (default: all)")
	cmd.Flags().StringArrayVar(&o.Where, "where", nil, "filter as column<op>value; op is one of = != > >= < <= ~ (LIKE) ~* (ILIKE)")
	cmd.Flags().StringSliceVar(&o.Order, "order", nil, "order terms as column[:asc|:desc]")
	cmd.Flags().Int64Var(&o.Limit, "limit", 0, "maximum number of rows")
	cmd.Flags().Int64Var(&o.Offset, "offset", 0, "number of rows to skip")
	_ = cmd.MarkFlagRequired("table")
}

// statement is a SELECT built from flags, with the names of the projected
// columns in order.
type statement struct {
	query   *sql.BoxedSelect[sql.Any, dynamic]
	columns []string
}

// buildStatement resolves the options against the schema file and builds
// the statement.
func buildStatement(cmd *cobra.Command, o *StatementOptions) (*statement, error) {
	if !dialect.Supported(o.Dialect) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unsupported dialect %q", o.Dialect))
	}
	s, err := load.Load(o.Schema)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid schema", err)
	}
	lt, ok := s.Table(o.Table)
	if !ok {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown table %q", o.Table))
	}
	r := newResolver(lt)

	names := o.Select
	if len(names) == 0 {
		for _, c := range lt.Columns {
			names = append(names, c.Name)
		}
	}
	projection := make([]sql.Selectable[dynamic, sql.Any], len(names))
	for i, name := range names {
		c, err := r.column(name)
		if err != nil {
			return nil, err
		}
		projection[i] = c
	}
	q := sql.Select[sql.Any](sql.From(r.table), sql.Columns(projection...))

	for _, w := range o.Where {
		p, err := r.predicate(w)
		if err != nil {
			return nil, err
		}
		q.Filter(p)
	}
	if len(o.Order) > 0 {
		terms := make([]sql.OrderTerm[dynamic], len(o.Order))
		for i, term := range o.Order {
			if terms[i], err = r.order(term); err != nil {
				return nil, err
			}
		}
		q.OrderBy(terms...)
	}
	if cmd.Flags().Changed("limit") {
		q.Limit(o.Limit)
	}
	if cmd.Flags().Changed("offset") {
		q.Offset(o.Offset)
	}
	return &statement{query: q, columns: names}, nil
}

// resolver maps column names of a schema table to runtime columns.
type resolver struct {
	schema  *load.Table
	table   *sql.Table[dynamic]
	columns map[string]column
}

func newResolver(lt *load.Table) *resolver {
	r := &resolver{
		schema:  lt,
		table:   sql.NewTable[dynamic](lt.Name),
		columns: make(map[string]column, len(lt.Columns)),
	}
	for _, c := range lt.Columns {
		var opts []sql.ColumnOption
		if c.PrimaryKey {
			opts = append(opts, sql.PrimaryKey())
		}
		r.columns[c.Name] = sql.NewColumn[sql.Any, any](r.table, c.Name, opts...)
	}
	return r
}

func (r *resolver) column(name string) (column, error) {
	c, ok := r.columns[name]
	if !ok {
		return column{}, NewExitError(ExitCommandError, fmt.Sprintf("unknown column %q of table %q", name, r.schema.Name))
	}
	return c, nil
}

// operators are matched longest first at every position.
var operators = []string{"!=", ">=", "<=", "~*", "=", ">", "<", "~"}

// splitCondition splits "column<op>value" at its first operator.
func splitCondition(s string) (name, op, value string, ok bool) {
	for i := range len(s) {
		for _, op := range operators {
			if strings.HasPrefix(s[i:], op) {
				return strings.TrimSpace(s[:i]), op, strings.TrimSpace(s[i+len(op):]), i > 0
			}
		}
	}
	return "", "", "", false
}

func (r *resolver) predicate(cond string) (sql.Expr[dynamic, sql.Bool], error) {
	name, op, raw, ok := splitCondition(cond)
	if !ok {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid condition %q: expected column<op>value", cond))
	}
	c, err := r.column(name)
	if err != nil {
		return nil, err
	}
	lc, _ := r.schema.Column(name)
	if strings.EqualFold(raw, "null") {
		switch op {
		case "=":
			return c.IsNull(), nil
		case "!=":
			return c.NotNull(), nil
		default:
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid condition %q: null only compares with = or !=", cond))
		}
	}
	if op == "~" || op == "~*" {
		if lc.Type != "text" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid condition %q: pattern match on %s column", cond, lc.Type))
		}
		if op == "~" {
			return sql.Like(c, raw), nil
		}
		return sql.ILike(c, raw), nil
	}
	v, err := parseValue(lc.Type, raw)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid condition %q", cond), err)
	}
	switch op {
	case "=":
		return c.EQ(v), nil
	case "!=":
		return c.NEQ(v), nil
	case ">":
		return c.GT(v), nil
	case ">=":
		return c.GTE(v), nil
	case "<":
		return c.LT(v), nil
	default:
		return c.LTE(v), nil
	}
}

func (r *resolver) order(term string) (sql.OrderTerm[dynamic], error) {
	name, dir, _ := strings.Cut(term, ":")
	c, err := r.column(name)
	if err != nil {
		return sql.OrderTerm[dynamic]{}, err
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return c.Asc(), nil
	case "desc":
		return c.Desc(), nil
	}
	return sql.OrderTerm[dynamic]{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid order %q: direction must be asc or desc", term))
}

// parseValue converts a flag value to the Go type bound for a column type.
func parseValue(typ, raw string) (any, error) {
	switch typ {
	case "bool":
		return strconv.ParseBool(raw)
	case "integer", "bigint":
		return strconv.ParseInt(raw, 10, 64)
	case "float":
		return strconv.ParseFloat(raw, 64)
	case "timestamp":
		return time.Parse(time.RFC3339, raw)
	case "uuid":
		return uuid.Parse(raw)
	default:
		return raw, nil
	}
}
