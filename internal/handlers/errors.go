package handlers

import (
	"errors"
	"net/http"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalanced):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the error text for client-caused failures and a
// generic message for everything else, so internals never leak.
func clientMessage(err error, fallback string) string {
	if statusForError(err) == http.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}
