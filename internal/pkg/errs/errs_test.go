package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "o-123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "o-123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: o-123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("trackingId", "TRK-1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: trackingId, ID is: TRK-1 (cause: record not found)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("carrierId")

		assert.Equal(t, "value is invalid: carrierId", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("unknown carrier")
		err := errs.NewValueIsInvalidErrorWithCause("carrierId", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: carrierId (cause: unknown carrier)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("weightKg", 75, 0, 50)

	assert.Equal(t, 75, err.Value)
	assert.Equal(t, "value is invalid: 75 is weightKg, min value is 0, max value is 50", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("trackingId")

	assert.Equal(t, "value is required: trackingId", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestVersionIsInvalidError(t *testing.T) {
	cause := errors.New("version 4 expected, 6 stored")
	err := errs.NewVersionIsInvalidError("order", cause)

	assert.Equal(t, "version is invalid: order (cause: version 4 expected, 6 stored)", err.Error())
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
}

func TestSanitizeCollapsesNewlines(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("remarks", "line\nbreak", 0, 10)

	assert.Contains(t, err.Error(), "line break")
	assert.NotContains(t, err.Error(), "\n")
}
