// Package apperror defines the application's error taxonomy.
//
// Services and repositories return errors wrapping one of the sentinel
// errors below; the HTTP layer maps each sentinel to a status code in
// handler/response.go. errors.Is walks the wrap chain, so a service can do
//
//	fmt.Errorf("registering user: %w", apperror.Conflict("email already registered"))
//
// and the handler still recognises it as a conflict.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("unavailable")
	ErrUpstream     = errors.New("upstream error")
)

type AppError struct {
	Err     error  // sentinel, for errors.Is
	Message string // human-readable detail returned to the client
	Field   string // optional: field causing a validation error
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

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized covers invalid credentials as well as invalid or expired
// tokens. Login returns the same message for an unknown email and a wrong
// password so accounts cannot be enumerated.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unavailable signals that the document store is down. Handlers map it to
// 503 so auth and stats routes fail fast while the image proxy keeps serving.
func Unavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}

// Upstream signals a failed outbound fetch (catalog endpoint returned a
// non-2xx status or the request itself failed). Mapped to 500.
func Upstream(message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
	}
}
