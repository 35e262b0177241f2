package sqlgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/boxql"
	"github.com/syssam/boxql/dialect"
	"github.com/syssam/boxql/dialect/sql"
	"github.com/syssam/boxql/dialect/sql/changeset"
)

// ExecUpdate executes stmt on drv and returns the number of affected rows.
// A statement without assignments is not sent; it updates zero rows.
func ExecUpdate[QS any](ctx context.Context, drv dialect.Driver, stmt *sql.UpdateStatement[QS]) (int64, error) {
	if stmt.IsNoop() {
		return 0, nil
	}
	n, err := sql.ExecStatement(ctx, drv, drv.Dialect(), stmt)
	if err != nil {
		return 0, mutationError(stmt.Table().Name(), err)
	}
	return n, nil
}

// QueryByID loads the row of t whose primary key pk equals id.
func QueryByID[R, QS any, ST sql.SQLType, K any](
	ctx context.Context,
	drv dialect.Driver,
	t *sql.Table[QS],
	pk sql.Column[QS, ST, K],
	id K,
	scan func(sql.ColumnScanner) (R, error),
) (R, error) {
	return queryByID(ctx, drv, drv.Dialect(), t, pk, id, scan)
}

// SaveChanges writes the changeset of record to its row of t and returns the
// row as stored afterwards, read back within the same transaction.
//
// A record whose changeset is empty issues no UPDATE; its row is still
// reloaded. The transaction is rolled back on any error.
func SaveChanges[R, QS any, ST sql.SQLType, K any](
	ctx context.Context,
	drv dialect.Driver,
	t *sql.Table[QS],
	pk sql.Column[QS, ST, K],
	record changeset.Identifiable[QS, K],
	scan func(sql.ColumnScanner) (R, error),
) (R, error) {
	var zero R
	d := drv.Dialect()
	tx, err := drv.Tx(ctx)
	if err != nil {
		return zero, fmt.Errorf("sqlgraph: starting transaction: %w", err)
	}
	id := record.PrimaryKey()
	cs := record.AsChangeset()
	if !cs.IsEmpty() {
		stmt := changeset.Update(t, cs).Where(pk.EQ(id))
		if _, err := sql.ExecStatement(ctx, tx, d, stmt); err != nil {
			return zero, rollback(tx, mutationError(t.Name(), err))
		}
	}
	v, err := queryByID(ctx, tx, d, t, pk, id, scan)
	if err != nil {
		return zero, rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("sqlgraph: committing %s: %w", t.Name(), err)
	}
	return v, nil
}

func queryByID[R, QS any, ST sql.SQLType, K any](
	ctx context.Context,
	drv dialect.ExecQuerier,
	d string,
	t *sql.Table[QS],
	pk sql.Column[QS, ST, K],
	id K,
	scan func(sql.ColumnScanner) (R, error),
) (_ R, err error) {
	var zero R
	q := sql.From(t).Filter(pk.EQ(id)).Limit(1)
	rows, err := sql.QueryStatement(ctx, drv, d, q)
	if err != nil {
		return zero, boxql.NewQueryError(t.Name(), "reload", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = boxql.NewQueryError(t.Name(), "reload", cerr)
		}
	}()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, boxql.NewQueryError(t.Name(), "reload", err)
		}
		return zero, boxql.NewNotFoundErrorWithID(t.Name(), id)
	}
	v, err := scan(rows)
	if err != nil {
		return zero, boxql.NewQueryError(t.Name(), "reload", err)
	}
	return v, nil
}

func mutationError(table string, err error) error {
	if IsConstraintError(err) && !boxql.IsConstraintError(err) {
		err = boxql.NewConstraintError(err.Error(), err)
	}
	return boxql.NewMutationError(table, "update", err)
}

// rollback calls tx.Rollback and wraps the given error with the rollback error if occurred.
func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return &boxql.RollbackError{Err: errors.Join(err, rerr)}
	}
	return err
}
