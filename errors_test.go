package boxql_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/boxql"
)

func TestRenderError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := boxql.NewRenderError("mysql", "ILIKE")
		assert.Equal(t, "boxql: cannot render ILIKE for dialect mysql", err.Error())

		err = boxql.NewRenderError("", "UPDATE with empty SET list")
		assert.Equal(t, "boxql: cannot render UPDATE with empty SET list", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := boxql.NewRenderError("sqlite", "NULLS FIRST")
		assert.True(t, errors.Is(err, boxql.ErrUnsupported))
	})

	t.Run("IsRenderError", func(t *testing.T) {
		err := boxql.NewRenderError("mysql", "OFFSET without LIMIT")
		assert.True(t, boxql.IsRenderError(err))
		assert.True(t, boxql.IsRenderError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, boxql.IsRenderError(errors.New("other error")))
		assert.False(t, boxql.IsRenderError(nil))
	})
}

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := boxql.NewNotFoundError("users")
		assert.Equal(t, "boxql: users not found", err.Error())

		err = boxql.NewNotFoundErrorWithID("users", 42)
		assert.Equal(t, "boxql: users not found (id=42)", err.Error())
		assert.Equal(t, 42, err.ID())
		assert.Equal(t, "users", err.Label())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := boxql.NewNotFoundError("posts")
		assert.True(t, errors.Is(err, boxql.ErrNotFound))
		assert.True(t, boxql.IsNotFound(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, boxql.IsNotFound(boxql.ErrNotFound))
		assert.False(t, boxql.IsNotFound(errors.New("other error")))
		assert.False(t, boxql.IsNotFound(nil))
	})
}

func TestConstraintError(t *testing.T) {
	underlying := errors.New("UNIQUE constraint failed: users.email")
	err := boxql.NewConstraintError("unique", underlying)
	assert.Equal(t, "boxql: constraint failed: unique", err.Error())
	assert.True(t, boxql.IsConstraintError(err))
	assert.True(t, boxql.IsConstraintError(fmt.Errorf("wrapper: %w", err)))
	assert.ErrorIs(t, err, underlying)
	assert.False(t, boxql.IsConstraintError(underlying))
	assert.False(t, boxql.IsConstraintError(nil))
}

func TestValidationError(t *testing.T) {
	underlying := errors.New("unknown column type \"money\"")
	err := boxql.NewValidationError("users.balance", underlying)
	assert.Equal(t, `boxql: invalid declaration "users.balance": unknown column type "money"`, err.Error())
	assert.True(t, boxql.IsValidationError(err))
	assert.ErrorIs(t, err, underlying)
	assert.False(t, boxql.IsValidationError(nil))
}

func TestQueryAndMutationErrors(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("QueryError", func(t *testing.T) {
		err := boxql.NewQueryError("users", "reload", cause)
		assert.Equal(t, "boxql: querying users (reload): connection reset", err.Error())
		assert.True(t, boxql.IsQueryError(err))
		assert.ErrorIs(t, err, cause)

		err = boxql.NewQueryError("users", "", cause)
		assert.Equal(t, "boxql: querying users: connection reset", err.Error())
	})

	t.Run("MutationError", func(t *testing.T) {
		err := boxql.NewMutationError("users", "update", cause)
		assert.Equal(t, "boxql: update users: connection reset", err.Error())
		assert.True(t, boxql.IsMutationError(err))
		assert.False(t, boxql.IsQueryError(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("RollbackError", func(t *testing.T) {
		err := &boxql.RollbackError{Err: cause}
		assert.Equal(t, "boxql: rollback failed: connection reset", err.Error())
		var target *boxql.RollbackError
		require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
		assert.ErrorIs(t, err, cause)
	})
}
