package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a business error with a stable machine-readable code and the
// HTTP status it maps to at the boundary.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	err        error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return e.Code + ": " + e.Message + ": " + e.err.Error()
	}

	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Is matches AppErrors by code, so copies produced by WithCause still
// compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}

	return e.Code == t.Code
}

// WithCause returns a copy of e wrapping cause, so callers can keep the
// stable code while preserving the underlying error chain.
func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		HTTPStatus: e.HTTPStatus,
		err:        cause,
	}
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

var (
	ErrInvalidOrderData = New("INVALID_ORDER_DATA", "order items are required", http.StatusBadRequest)
	ErrInvalidTotalPrice = New(
		"INVALID_TOTAL_PRICE",
		"a positive total price is required",
		http.StatusBadRequest,
	)
	ErrOrderCreationFailed = New(
		"ORDER_CREATION_FAILED",
		"failed to create the order",
		http.StatusInternalServerError,
	)
	ErrOrderNotFound = New("ORDER_NOT_FOUND", "order not found", http.StatusNotFound)
	ErrMenuNotFound  = New("MENU_NOT_FOUND", "menu not found", http.StatusNotFound)
	ErrItemNotFound  = New("ITEM_NOT_FOUND", "inventory item not found", http.StatusNotFound)
	ErrInvalidStockQuantity = New(
		"INVALID_STOCK_QUANTITY",
		"a non-negative stock quantity is required",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = New("INVALID_STATUS", "a valid order status is required", http.StatusBadRequest)
	ErrInvalidStatusTransition = New(
		"INVALID_STATUS_TRANSITION",
		"the order cannot transition to the requested status",
		http.StatusConflict,
	)
	ErrInternal = New(
		"INTERNAL_SERVER_ERROR",
		"something went wrong",
		http.StatusInternalServerError,
	)
)

// InsufficientStockError reports a reservation that would drive stock below
// zero for a menu item.
type InsufficientStockError struct {
	MenuID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for menu %d: requested %d, available %d",
		e.MenuID, e.Requested, e.Available,
	)
}

// From extracts the AppError from err, falling back to ErrInternal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternal
}
