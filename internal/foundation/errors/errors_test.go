package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NotFoundError("Couldn't find Environment with name: prod for App: demo.").
			WithContext("name", "prod").
			WithContext("scope", "demo").
			Build()

		assert.Equal(t, CategoryNotFound, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "Couldn't find Environment with name: prod for App: demo.", err.Error())

		name, ok := err.Context().Get("name")
		require.True(t, ok)
		assert.Equal(t, "prod", name)
	})

	t.Run("Cause is rendered and unwrapped", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := WrapError(cause, CategoryNetwork, "failed to execute request").Retryable().Build()

		assert.Equal(t, "failed to execute request: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.True(t, err.CanRetry())
	})

	t.Run("Auth errors need user action", func(t *testing.T) {
		err := AuthError("Invalid Token. Failed to Authenticate.").Build()
		assert.False(t, err.CanRetry())
		assert.Equal(t, SeverityError, err.Severity())
	})
}

func TestAsClassified_WrappedChain(t *testing.T) {
	inner := BuildError("Build finished with failed state.").WithContext("state", "failed").Build()
	wrapped := fmt.Errorf("dispatch: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.True(t, HasCategory(wrapped, CategoryBuild))
	assert.Equal(t, CategoryBuild, GetCategory(wrapped))
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	_, ok = AsClassified(stderrors.New("plain"))
	assert.False(t, ok)
}
