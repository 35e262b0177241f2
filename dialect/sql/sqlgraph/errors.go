package sqlgraph

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/syssam/boxql"
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return boxql.IsConstraintError(err) ||
		IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err) ||
		IsNotNullConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool { return unique.match(err) }

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool { return foreignKey.match(err) }

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool { return check.match(err) }

// IsNotNullConstraintError reports if the error resulted from writing NULL
// into a NOT NULL column, e.g. a changeset derived with TreatNoneAsNull.
func IsNotNullConstraintError(err error) bool { return notNull.match(err) }

// constraint describes how each backend reports one class of violation.
type constraint struct {
	sqlState string   // PostgreSQL SQLSTATE (class 23)
	mysql    []uint16 // MySQL error numbers
	messages []string // Message fragments for drivers exposing neither
}

var (
	unique = constraint{
		sqlState: "23505",
		mysql:    []uint16{1062},
		messages: []string{"Error 1062", "violates unique constraint", "UNIQUE constraint failed"},
	}
	foreignKey = constraint{
		sqlState: "23503",
		mysql:    []uint16{1451, 1452},
		messages: []string{"Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"},
	}
	check = constraint{
		sqlState: "23514",
		mysql:    []uint16{3819},
		messages: []string{"Error 3819", "violates check constraint", "CHECK constraint failed"},
	}
	notNull = constraint{
		sqlState: "23502",
		mysql:    []uint16{1048},
		messages: []string{"Error 1048", "violates not-null constraint", "NOT NULL constraint failed"},
	}
)

// sqlStateError is implemented by pq.Error, pgx and some MySQL drivers.
type sqlStateError interface {
	SQLState() string
}

// errorCoder is implemented by drivers exposing the SQLSTATE as Code.
type errorCoder interface {
	Code() string
}

// errorNumberer is implemented by MySQL-compatible drivers exposing the error
// number as a method. go-sql-driver exposes it as a field of MySQLError.
type errorNumberer interface {
	Number() uint16
}

// mysqlNumber returns the MySQL error number carried by err.
func mysqlNumber(err error) (uint16, bool) {
	if me := (*mysql.MySQLError)(nil); errors.As(err, &me) {
		return me.Number, true
	}
	if e, ok := asError[errorNumberer](err); ok {
		return e.Number(), true
	}
	return 0, false
}

func (c constraint) match(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == c.sqlState {
		return true
	}
	if e, ok := asError[errorCoder](err); ok && e.Code() == c.sqlState {
		return true
	}
	if n, ok := mysqlNumber(err); ok && slices.Contains(c.mysql, n) {
		return true
	}
	msg := err.Error()
	for _, m := range c.messages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
