package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCauseKeepsCodeAndChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrOrderCreationFailed.WithCause(cause)

	assert.Equal(t, "ORDER_CREATION_FAILED", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.ErrorIs(t, err, ErrOrderCreationFailed)
	assert.ErrorIs(t, err, cause)
}

func TestFrom(t *testing.T) {
	t.Run("unwraps nested app error", func(t *testing.T) {
		wrapped := fmt.Errorf("placing order: %w", ErrMenuNotFound)

		appErr := From(wrapped)

		assert.Equal(t, "MENU_NOT_FOUND", appErr.Code)
		assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	})

	t.Run("unknown errors map to internal", func(t *testing.T) {
		appErr := From(errors.New("boom"))

		assert.Equal(t, "INTERNAL_SERVER_ERROR", appErr.Code)
	})
}

func TestInsufficientStockErrorThroughCauseChain(t *testing.T) {
	stockErr := &InsufficientStockError{MenuID: 2, Requested: 3, Available: 1}
	err := ErrOrderCreationFailed.WithCause(fmt.Errorf("reserving stock: %w", stockErr))

	var got *InsufficientStockError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, int64(2), got.MenuID)
	assert.Equal(t, "insufficient stock for menu 2: requested 3, available 1", got.Error())
}
