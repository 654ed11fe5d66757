package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"allocator/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("allocation", "8c1f")

		assert.Equal(t, "allocation", err.ParamName)
		assert.Equal(t, "8c1f", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 8c1f", err.Error())
		assert.Equal(t, []error{errs.ErrObjectNotFound}, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("allocation", "8c1f", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: allocation, ID is: 8c1f (cause: connection reset)",
			err.Error())
	})

	t.Run("non string identifiers are rendered with their default format", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("allocation", 42)
		assert.Equal(t, "object not found: 42", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("order")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "value is invalid: order", err.Error())
		assert.Equal(t, []error{errs.ErrValueIsInvalid}, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("order", errors.New("no positive quantity"))

		assert.Equal(t, "value is invalid: order (cause: no positive quantity)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("apple", -1, 0, "unbounded")

		assert.Equal(t, -1, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t,
			"value is out of range: -1 is apple, min value is 0, max value is unbounded",
			err.Error())
		assert.Equal(t, []error{errs.ErrValueIsOutOfRange}, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("limit", 500, 1, 100, errors.New("too many rows"))

		assert.Equal(t,
			"value is out of range: 500 is limit, min value is 1, max value is 100 (cause: too many rows)",
			err.Error())
	})

	t.Run("newlines in values are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("item", "app\nle", 0, 10)

		assert.Contains(t, err.Error(), "app le")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("warehouse name")
	assert.Equal(t, "value is required: warehouse name", err.Error())

	cause := errors.New("blank")
	withCause := errs.NewValueIsRequiredErrorWithCause("warehouse name", cause)
	assert.Equal(t, "value is required: warehouse name (cause: blank)", withCause.Error())
	assert.Equal(t, []error{errs.ErrValueIsRequired, cause}, withCause.Unwrap())
	require.ErrorIs(t, withCause, cause)
}

func TestErrorsCanBeClassified(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", errs.NewObjectNotFoundError("allocation", "1"), errs.ErrObjectNotFound},
		{"invalid", errs.NewValueIsInvalidError("order"), errs.ErrValueIsInvalid},
		{"out of range", errs.NewValueIsOutOfRangeError("qty", -1, 0, 10), errs.ErrValueIsOutOfRange},
		{"required", errs.NewValueIsRequiredError("name"), errs.ErrValueIsRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tc.err)
			require.ErrorIs(t, wrapped, tc.sentinel)
		})
	}

	t.Run("errors.As extracts details through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("repo: %w", errs.NewObjectNotFoundError("allocation", "abc"))

		var notFound *errs.ObjectNotFoundError
		require.ErrorAs(t, wrapped, &notFound)
		assert.Equal(t, "abc", notFound.ID)
	})
}
