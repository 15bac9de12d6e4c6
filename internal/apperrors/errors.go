package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to claim a unique value (email, alias, routing code)
// that already belongs to another account. It is reported to clients as a validation failure.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the supplied credentials did not match.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that an authenticated caller tried to act on another account.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientFunds indicates that a debit would take a balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates concurrent-update contention. Callers may retry.
var ErrConflict = errors.New("concurrent update conflict")

// ErrUpstream indicates a failure in an external collaborator (push gateway, broker).
// It never leaves the notification dispatcher.
var ErrUpstream = errors.New("upstream service error")

// ErrInternal is returned when an unexpected failure must not leak details to clients.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and a human readable message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err belongs to the part of the taxonomy that maps to a 4xx response.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrConflict)
}
