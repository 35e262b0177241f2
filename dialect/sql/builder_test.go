package sql

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/boxql"
	"github.com/syssam/boxql/dialect"
)

func TestBuilder_Ident(t *testing.T) {
	t.Parallel()
	tests := []struct {
		dialect string
		input   string
		want    string
	}{
		{dialect.Postgres, "users", `"users"`},
		{dialect.Postgres, "users.id", `"users"."id"`},
		{dialect.SQLite, `we"ird`, `"we""ird"`},
		{dialect.MySQL, "users.id", "`users`.`id`"},
		{dialect.MySQL, "a`b", "`a``b`"},
		{dialect.MySQL, "*", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect+"/"+tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewBuilder(tt.dialect).Ident(tt.input).String())
		})
	}
}

func TestBuilder_Placeholders(t *testing.T) {
	t.Parallel()
	for d, want := range map[string]string{
		dialect.Postgres: "$1, $2, $3",
		dialect.MySQL:    "?, ?, ?",
		dialect.SQLite:   "?, ?, ?",
	} {
		b := NewBuilder(d)
		require.NoError(t, b.Join([]Fragment{arg{1}, arg{"a"}, arg{nil}}, ", "))
		query, args := b.Query()
		assert.Equal(t, want, query, d)
		assert.Equal(t, []any{1, "a", nil}, args, d)
	}
}

func TestBuilder_InlineLiterals(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name    string
		dialect string
		value   any
		want    string
	}{
		{"nil", dialect.Postgres, nil, "NULL"},
		{"string", dialect.Postgres, "it's", "'it''s'"},
		{"string_backslash_postgres", dialect.Postgres, `a\b`, `'a\b'`},
		{"string_backslash_mysql", dialect.MySQL, `a\b'`, `'a\\b'''`},
		{"bool_postgres", dialect.Postgres, true, "TRUE"},
		{"bool_mysql", dialect.MySQL, false, "FALSE"},
		{"bool_sqlite", dialect.SQLite, true, "1"},
		{"int", dialect.SQLite, 42, "42"},
		{"int32", dialect.SQLite, int32(-7), "-7"},
		{"int64", dialect.SQLite, int64(1) << 40, "1099511627776"},
		{"uint64", dialect.SQLite, uint64(9), "9"},
		{"float", dialect.MySQL, 1.5, "1.5"},
		{"time", dialect.Postgres, ts, "'2024-01-02T03:04:05Z'"},
		{"uuid", dialect.Postgres, id, "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args, err := Render(tt.dialect, arg{tt.value}, Inline())
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Empty(t, args)
		})
	}
}

func TestBuilder_InlineUnsupported(t *testing.T) {
	t.Parallel()
	for _, v := range []any{math.NaN(), math.Inf(1), []byte("x"), struct{}{}} {
		_, _, err := Render(dialect.Postgres, arg{v}, Inline())
		require.Error(t, err)
		assert.True(t, boxql.IsRenderError(err))
	}
}

func TestRender_Error(t *testing.T) {
	t.Parallel()
	f := FragmentFunc(func(b *Builder) error {
		b.WriteString("partial")
		return b.Unsupported("THING")
	})
	query, args, err := Render(dialect.SQLite, f)
	require.EqualError(t, err, "boxql: cannot render THING for dialect sqlite")
	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestRaw_Empty(t *testing.T) {
	t.Parallel()
	query, _, err := Render(dialect.MySQL, list{Raw("1"), Empty(), Raw("2")})
	require.NoError(t, err)
	assert.Equal(t, "1, , 2", query)
}

func TestTypeTags(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "text", TypeName[Text]())
	assert.Equal(t, "nullable integer", TypeName[Nullable[Integer]]())
	assert.Equal(t, "(bigint, nullable text)", TypeName[Pair[BigInt, Nullable[Text]]]())
	assert.Equal(t, "(bool, float, uuid)", TypeName[Triple[Bool, Float, UUID]]())
	assert.True(t, IsNullable[Nullable[Timestamp]]())
	assert.False(t, IsNullable[Timestamp]())
}

func TestTable(t *testing.T) {
	t.Parallel()
	type widgets struct{}
	w := NewTable[widgets]("widgets")
	id := UUIDColumn(w, "id", PrimaryKey())
	_ = NullableTimestampColumn(w, "deleted_at")

	assert.Equal(t, "widgets", w.Name())
	assert.Equal(t, "id", id.Name())
	assert.Equal(t, "widgets", id.Table())
	pk, ok := w.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, ColumnInfo{Name: "id", Type: "uuid", PrimaryKey: true}, pk)
	col, ok := w.Column("deleted_at")
	require.True(t, ok)
	assert.Equal(t, ColumnInfo{Name: "deleted_at", Type: "nullable timestamp", Nullable: true}, col)
	assert.Len(t, w.Columns(), 2)

	assert.Panics(t, func() { TextColumn(w, "id") })
}

func TestColumnPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		pred      Expr[users, Bool]
		wantQuery string
		wantArgs  []any
	}{
		{"neq", UserName.NEQ("a"), `"users"."name" <> $1`, []any{"a"}},
		{"gte", UserID.GTE(2), `"users"."id" >= $1`, []any{int64(2)}},
		{"lte", UserID.LTE(2), `"users"."id" <= $1`, []any{int64(2)}},
		{"in", UserID.In(1, 2, 3), `"users"."id" IN ($1, $2, $3)`, []any{int64(1), int64(2), int64(3)}},
		{"not_in", UserName.NotIn("a"), `"users"."name" NOT IN ($1)`, []any{"a"}},
		{"in_empty", UserID.In(), `1 = 0`, nil},
		{"not_in_empty", UserID.NotIn(), `1 = 1`, nil},
		{"not_null", UserEmail.NotNull(), `"users"."email" IS NOT NULL`, nil},
		{"eq_column", UserName.EQColumn(Value[users, Text]("b")), `"users"."name" = $1`, []any{"b"}},
		{"and", And(UserAdmin.EQ(false), UserID.EQ(1)), `("users"."admin" = $1) AND ("users"."id" = $2)`, []any{false, int64(1)}},
		{"typed", Typed[users, Bool](Raw("TRUE")), `TRUE`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args, err := Render(dialect.Postgres, tt.pred)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCount(t *testing.T) {
	t.Parallel()
	query, _, err := Render(dialect.SQLite, UserEmail.Count())
	require.NoError(t, err)
	assert.Equal(t, `COUNT("users"."email")`, query)

	query, _, err = Render(dialect.SQLite, Count[users, Text](UserName))
	require.NoError(t, err)
	assert.Equal(t, `COUNT("users"."name")`, query)

	query, _, err = Render(dialect.SQLite, Tuple3[posts, Integer, Text, BigInt](PostID, PostTitle, CountStar(Posts)))
	require.NoError(t, err)
	assert.Equal(t, `"posts"."id", "posts"."title", COUNT(*)`, query)
}

func TestStarWithoutColumns(t *testing.T) {
	t.Parallel()
	type logs struct{}
	query, _, err := From(NewTable[logs]("logs")).Query(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "logs"`, query)
}

func TestRuntimeColumns(t *testing.T) {
	t.Parallel()
	type events struct{}
	table := NewTable[events]("events")
	kind := NewColumn[Any, any](table, "kind")
	at := NewColumn[Any, any](table, "at")

	info, ok := table.Column("kind")
	require.True(t, ok)
	assert.Equal(t, "any", info.Type)

	q := Select[Any](From(table), Columns[events](kind, at)).
		Filter(kind.EQ("login")).
		Filter(Like(kind, "log%"))
	query, args, err := q.Query(dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `events`.`kind`, `events`.`at` FROM `events` WHERE (`events`.`kind` = ?) AND (`events`.`kind` LIKE ?)", query)
	assert.Equal(t, []any{"login", "log%"}, args)
}
