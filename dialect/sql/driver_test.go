package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/boxql"
	"github.com/syssam/boxql/dialect"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{"Postgres", dialect.Postgres},
		{"MySQL", dialect.MySQL},
		{"SQLite", dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newMock(t)
			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestDriverDialectPrefix(t *testing.T) {
	db, _ := newMock(t)
	assert.Equal(t, dialect.SQLite, OpenDB("sqlite3", db).Dialect())
	assert.Equal(t, "oracle", OpenDB("oracle", db).Dialect())
}

func TestDriverQuery(t *testing.T) {
	db, mock := newMock(t)
	drv := OpenDB(dialect.Postgres, db)

	t.Run("simple_query", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(1, "Alice").
				AddRow(2, "Bob"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT id, name FROM users", []any{}, rows)
		require.NoError(t, err)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("database error"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT", []any{}, rows)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect/sql: query:")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_destination", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", []any{}, new(int))
		require.EqualError(t, err, "dialect/sql: invalid type *int. expect *sql.Rows")
	})

	t.Run("invalid_args", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", "x", &Rows{})
		require.EqualError(t, err, "dialect/sql: invalid type string. expect []any for args")
	})
}

func TestDriverExec(t *testing.T) {
	db, mock := newMock(t)
	drv := OpenDB(dialect.Postgres, db)

	t.Run("with_result", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "users" SET "name" = $1 WHERE "users"."id" = $2`).
			WithArgs("Alice", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		var res sql.Result
		err := drv.Exec(context.Background(), `UPDATE "users" SET "name" = $1 WHERE "users"."id" = $2`, []any{"Alice", int64(1)}, &res)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").WillReturnError(errors.New("constraint violation"))

		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect/sql: exec:")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_destination", func(t *testing.T) {
		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, new(int))
		require.EqualError(t, err, "dialect/sql: invalid type *int. expect *sql.Result")
	})
}

func TestDriverTransaction(t *testing.T) {
	db, mock := newMock(t)
	drv := OpenDB(dialect.Postgres, db)

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "users"."id" FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		rows := &Rows{}
		require.NoError(t, tx.Query(context.Background(), `SELECT "users"."id" FROM "users"`, []any{}, rows))
		require.NoError(t, rows.Close())
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM users").WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.Error(t, tx.Exec(context.Background(), "DELETE FROM users", []any{}, nil))
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExecStatement(t *testing.T) {
	db, mock := newMock(t)
	drv := OpenDB(dialect.Postgres, db)

	mock.ExpectExec(`UPDATE "users" SET "name" = $1 WHERE "users"."id" = $2`).
		WithArgs("Ann", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := Update(Users).Set(UserName.Set("Ann")).Where(UserID.EQ(7))
	n, err := ExecStatement(context.Background(), drv, drv.Dialect(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = ExecStatement(context.Background(), drv, drv.Dialect(), Update(Users))
	require.Error(t, err)
	assert.True(t, boxql.IsRenderError(err))
}

func TestQueryStatement(t *testing.T) {
	db, mock := newMock(t)
	drv := OpenDB(dialect.MySQL, db)

	mock.ExpectQuery("SELECT `users`.`name` FROM `users` WHERE `users`.`id` > ? LIMIT 1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Bob"))

	q := From(Users)
	q.Filter(UserID.GT(3)).Limit(1)
	rows, err := QueryStatement(context.Background(), drv, drv.Dialect(), Select[Text](q, UserName))
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "Bob", name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryStatementRenderError(t *testing.T) {
	db, _ := newMock(t)
	drv := OpenDB(dialect.SQLite, db)

	q := From(Users).Offset(5)
	_, err := QueryStatement(context.Background(), drv, drv.Dialect(), q)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boxql.ErrUnsupported))
}

func TestNullScanner(t *testing.T) {
	var s NullString
	ns := &NullScanner{S: &s}
	require.NoError(t, ns.Scan(nil))
	assert.False(t, ns.Valid)
	require.NoError(t, ns.Scan("x"))
	assert.True(t, ns.Valid)
	assert.Equal(t, "x", s.String)
}

func TestContextCancellation(t *testing.T) {
	db, mock := newMock(t)
	drv := OpenDB(dialect.Postgres, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock.ExpectQuery("SELECT 1").WillReturnError(context.Canceled)
	err := drv.Query(ctx, "SELECT 1", []any{}, &Rows{})
	assert.Error(t, err)
}

func BenchmarkDriver(b *testing.B) {
	db, mock, err := sqlmock.New()
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	b.Run("Query_Simple", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
			rows := &Rows{}
			_ = drv.Query(context.Background(), "SELECT 1", []any{}, rows)
			rows.Close()
		}
	})

	b.Run("Exec_Simple", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
			_ = drv.Exec(context.Background(), "INSERT INTO t VALUES (1)", []any{}, nil)
		}
	})
}
