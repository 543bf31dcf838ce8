package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading shipment: %w", NewNotFoundError("shipment not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "shipment not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "postalCode", Message: "must have 8 digits"},
		{Field: "quantity", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(fmt.Errorf("checkout: %w", err))
	assert.True(t, ok)
	assert.Equal(t, err, ve)
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(7, 3, 1)

	assert.Equal(t, "insufficient stock for product 7: requested 3, available 1", err.Error())

	ise, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 7, ise.ProductID)

	unknown := NewInsufficientStockError(7, 3, -1)
	assert.Equal(t, "insufficient stock for product 7: requested 3", unknown.Error())
}

func TestConflictAndForbiddenErrors(t *testing.T) {
	_, ok := IsConflictError(NewConflictError("illegal transition"))
	assert.True(t, ok)

	_, ok = IsForbiddenError(NewForbiddenError("not the owner"))
	assert.True(t, ok)

	_, ok = IsConflictError(NewForbiddenError("not the owner"))
	assert.False(t, ok)
}

func TestProviderUnavailableError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := NewProviderUnavailableError("carrier-api", cause)

	assert.Contains(t, err.Error(), "carrier-api unavailable")
	assert.True(t, errors.Is(err, cause))

	pue, ok := IsProviderUnavailableError(fmt.Errorf("quote: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "carrier-api", pue.Provider)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
