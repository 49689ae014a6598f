package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnbalanced indicates that a journal batch's debit and credit sums diverge
// beyond the allowed tolerance. Nothing from the batch is persisted.
var ErrUnbalanced = errors.New("journal batch is unbalanced")

// ErrInvalidState indicates an operation was attempted against an entity in the
// wrong lifecycle state (e.g. paying an already-paid payroll record).
var ErrInvalidState = errors.New("invalid entity state for operation")

// ErrInsufficientStock indicates a reservation or fulfillment exceeded the
// available quantity of an inventory item.
var ErrInsufficientStock = errors.New("insufficient available stock")

// ErrReorderDispatch indicates the automatic reorder purchase order could not
// be placed. The item keeps a zero on-order quantity so the next qualifying
// mutation retries the trigger.
var ErrReorderDispatch = errors.New("reorder purchase order dispatch failed")

// ErrPublish indicates the event bus rejected or could not accept an event.
// Local state changes are never rolled back because of it.
var ErrPublish = errors.New("event publish failed")

// AppError carries a stable code alongside a human readable message and the
// wrapped cause, for surfacing structured failures at the API boundary.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
