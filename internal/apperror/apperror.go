// Package apperror defines the application's error taxonomy.
//
// Services return these domain errors; the HTTP layer translates them to
// status codes in one place (handler.writeError). Sentinel errors mark
// the CATEGORY (checked with errors.Is), while AppError carries the
// human-readable message and optional field.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrStorage         = errors.New("storage failure")
)

type AppError struct {
	Err     error  // category sentinel (wrapped)
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict covers duplicate-constraint violations, e.g. inviting a user
// who already has a collaboration row on the project.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden indicates a capability check failed: the caller is known but
// not allowed. HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized indicates the caller is not authenticated at all.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidState indicates an illegal lifecycle transition, e.g. accepting
// an invitation that was already declined.
func InvalidState(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidState,
		Message: message,
	}
}

func UnsupportedType(extension string) *AppError {
	return &AppError{
		Err:     ErrUnsupportedType,
		Message: fmt.Sprintf("file type %q is not allowed", extension),
	}
}

func TooLarge(maxBytes int64) *AppError {
	return &AppError{
		Err:     ErrTooLarge,
		Message: fmt.Sprintf("file exceeds the maximum upload size of %d bytes", maxBytes),
	}
}

// StorageFailure wraps an underlying byte-store error. Unlike the other
// constructors it keeps the cause in the chain for logging; the generic
// message is what reaches the client.
func StorageFailure(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrStorage, op, err),
		Message: "file storage is unavailable",
	}
}
