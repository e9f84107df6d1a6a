// Package errors provides standardized domain errors with stable reason
// codes for the Vecindario API.
//
// Usage:
//
//	// In services - return typed errors
//	if overlaps {
//	    return errors.TimeConflict("there is already a booking for this time")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrTimeConflict) {
//	    ...
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeTimeConflict:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable reason code. Callers branch on these,
// so they are part of the API contract and never change meaning.
type Code string

// Reason codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidIdentifier  Code = "INVALID_IDENTIFIER"
	CodeNotBookable        Code = "NOT_BOOKABLE"
	CodeOutsideHours       Code = "OUTSIDE_HOURS"
	CodeTimeConflict       Code = "TIME_CONFLICT"
	CodeNotAssigned        Code = "NOT_ASSIGNED"
	CodeStoreUnavailable   Code = "STORE_UNAVAILABLE"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeValidation         Code = "VALIDATION"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for a reason code.
// Business rejections map to 4xx so callers can tell them apart from
// 5xx-class infrastructure failures.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeNotAssigned:
		return http.StatusNotFound
	case CodeInvalidIdentifier, CodeValidation:
		return http.StatusBadRequest
	case CodeNotBookable, CodeOutsideHours:
		return http.StatusUnprocessableEntity
	case CodeTimeConflict, CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidIdentifier  = &Error{Code: CodeInvalidIdentifier, Message: "invalid identifier"}
	ErrNotBookable        = &Error{Code: CodeNotBookable, Message: "amenity not bookable"}
	ErrOutsideHours       = &Error{Code: CodeOutsideHours, Message: "outside amenity hours"}
	ErrTimeConflict       = &Error{Code: CodeTimeConflict, Message: "time conflict"}
	ErrNotAssigned        = &Error{Code: CodeNotAssigned, Message: "not assigned"}
	ErrStoreUnavailable   = &Error{Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidIdentifier creates an invalid identifier error.
func InvalidIdentifier(msg string) *Error {
	return &Error{Code: CodeInvalidIdentifier, Message: msg}
}

// InvalidIdentifierf creates an invalid identifier error with formatted message.
func InvalidIdentifierf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidIdentifier, Message: fmt.Sprintf(format, args...)}
}

// NotBookable creates a not bookable error.
func NotBookable(msg string) *Error {
	return &Error{Code: CodeNotBookable, Message: msg}
}

// OutsideHours creates an outside hours error.
func OutsideHours(msg string) *Error {
	return &Error{Code: CodeOutsideHours, Message: msg}
}

// TimeConflict creates a time conflict error.
func TimeConflict(msg string) *Error {
	return &Error{Code: CodeTimeConflict, Message: msg}
}

// NotAssigned creates a not assigned error.
func NotAssigned(msg string) *Error {
	return &Error{Code: CodeNotAssigned, Message: msg}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: msg}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
