package boxql

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("boxql: row not found")

	// ErrUnsupported is matched by every RenderError.
	ErrUnsupported = errors.New("boxql: construct not supported by dialect")
)

// RenderError is returned by a fragment that cannot produce SQL for the
// dialect it is rendered for. It is the only error raised while rendering.
type RenderError struct {
	Dialect   string // Target dialect (e.g., "mysql")
	Construct string // Construct that could not be rendered
}

// Error returns the error string.
func (e *RenderError) Error() string {
	if e.Dialect == "" {
		return fmt.Sprintf("boxql: cannot render %s", e.Construct)
	}
	return fmt.Sprintf("boxql: cannot render %s for dialect %s", e.Construct, e.Dialect)
}

// Is reports whether the target error matches ErrUnsupported.
func (e *RenderError) Is(err error) bool {
	return err == ErrUnsupported
}

// NewRenderError returns a new RenderError for the given dialect and construct.
func NewRenderError(dialect, construct string) *RenderError {
	return &RenderError{Dialect: dialect, Construct: construct}
}

// IsRenderError returns true if the error is a RenderError.
func IsRenderError(err error) bool {
	if err == nil {
		return false
	}
	var e *RenderError
	return errors.As(err, &e)
}

// NotFoundError represents an error when a row is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the primary key that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("boxql: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("boxql: %s not found", e.label)
}

// Is reports whether the target error matches ErrNotFound.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the table label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the primary key that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the primary key that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("boxql: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// ValidationError reports an invalid schema or record declaration.
type ValidationError struct {
	Name string // Table, column or record name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("boxql: invalid declaration %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given name.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("boxql: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// QueryError wraps a failed read with the table and operation it belongs to.
type QueryError struct {
	Table string // Table being queried
	Op    string // Operation (e.g., "select", "reload")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("boxql: querying %s (%s): %v", e.Table, e.Op, e.Err)
	}
	return fmt.Sprintf("boxql: querying %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(table, op string, err error) *QueryError {
	return &QueryError{Table: table, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a failed write with the table and operation it belongs to.
type MutationError struct {
	Table string // Table being mutated
	Op    string // Operation (e.g., "update")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("boxql: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(table, op string, err error) *MutationError {
	return &MutationError{Table: table, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}
